// Package schemas embeds the JSON Schemas for the rule table and the JSON report.
package schemas

import _ "embed"

//go:embed rules.schema.json
var RulesSchemaJSON string

//go:embed report.schema.json
var ReportSchemaJSON string

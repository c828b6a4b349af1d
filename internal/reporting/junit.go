package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one scored skill.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
	SystemOut  string          `xml:"system-out,omitempty"`
}

// JUnitTestCase maps to one scoring category.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure marks a category that lost points.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit maps each category to a test case. A category fails when it
// scored below its maximum; the failure body lists its issues.
func ConvertToJUnit(r *Report, timestamp time.Time) *JUnitTestSuites {
	suite := JUnitTestSuite{
		Name:      r.SkillName,
		Tests:     len(r.Categories),
		Timestamp: timestamp.UTC().Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "skill_path", Value: r.SkillPath},
			{Name: "score", Value: fmt.Sprintf("%d/%d", r.Overall.Score, r.Overall.Max)},
			{Name: "percentage", Value: fmt.Sprintf("%.2f", r.Overall.Percentage)},
			{Name: "grade", Value: r.Overall.Grade},
		},
		SystemOut: FormatSummary(r),
	}

	for _, c := range r.Categories {
		tc := JUnitTestCase{
			Name:      c.Name,
			Classname: r.SkillName,
		}
		if c.Score < c.Max {
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%s: %d/%d (%.1f%%)", c.Name, c.Score, c.Max, c.Percentage),
				Type:    "QualityIssue",
				Body:    strings.Join(c.Issues, "\n"),
			}
			suite.Failures++
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnitXML writes JUnit XML for r to w.
func WriteJUnitXML(w io.Writer, r *Report, timestamp time.Time) error {
	data, err := xml.MarshalIndent(ConvertToJUnit(r, timestamp), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

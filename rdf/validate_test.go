package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLexical(t *testing.T) {
	tests := []struct {
		name  string
		value string
		dt    Datatype
		valid bool
	}{
		{"integer", "42", XSDInteger, true},
		{"signed integer", "+42", XSDInteger, true},
		{"integer with fraction", "4.2", XSDInteger, false},
		{"integer letters", "abc", XSDInteger, false},
		{"decimal", "-0.5", XSDDecimal, true},
		{"decimal leading dot", ".5", XSDDecimal, true},
		{"decimal exponent", "1e3", XSDDecimal, false},
		{"double exponent", "2.02E5", XSDDouble, true},
		{"double infinity", "-INF", XSDDouble, true},
		{"double NaN", "NaN", XSDDouble, true},
		{"double garbage", "1.2.3", XSDDouble, false},
		{"byte upper bound", "127", xsd("byte", CategoryNumeric), true},
		{"byte overflow", "128", xsd("byte", CategoryNumeric), false},
		{"unsignedLong max", "18446744073709551615", xsd("unsignedLong", CategoryNumeric), true},
		{"unsignedInt negative", "-1", xsd("unsignedInt", CategoryNumeric), false},
		{"positiveInteger zero", "0", xsd("positiveInteger", CategoryNumeric), false},
		{"negativeInteger", "-1", xsd("negativeInteger", CategoryNumeric), true},
		{"boolean true", "true", XSDBoolean, true},
		{"boolean upper", "TRUE", XSDBoolean, false},
		{"boolean digit", "1", XSDBoolean, false},
		{"dateTime zulu", "2024-01-15T10:30:00Z", XSDDateTime, true},
		{"dateTime offset", "2024-01-15T10:30:00+02:00", XSDDateTime, true},
		{"dateTime fraction", "2024-01-15T10:30:00.25", XSDDateTime, true},
		{"dateTime date only", "2024-01-15", XSDDateTime, false},
		{"date", "2024-02-29", xsd("date", CategoryDateTime), true},
		{"date bad month", "2024-13-01", xsd("date", CategoryDateTime), false},
		{"gYear", "1999", xsd("gYear", CategoryDateTime), true},
		{"duration", "P1Y2M3DT4H5M6.5S", XSDDuration, true},
		{"negative duration", "-PT5M", XSDDuration, true},
		{"duration bare P", "P", XSDDuration, false},
		{"duration dangling T", "P1DT", XSDDuration, false},
		{"dayTimeDuration with years", "P1Y", xsd("dayTimeDuration", CategoryTimeSpan), false},
		{"yearMonthDuration with days", "P1Y2D", xsd("yearMonthDuration", CategoryTimeSpan), false},
		{"string anything", "  any\ttext ", XSDString, true},
		{"normalizedString tab", "a\tb", xsd("normalizedString", CategoryString), false},
		{"token double space", "a  b", xsd("token", CategoryString), false},
		{"token", "a b", xsd("token", CategoryString), true},
		{"language", "en-US", xsd("language", CategoryString), true},
		{"language digit start", "1en", xsd("language", CategoryString), false},
		{"NCName colon", "a:b", xsd("NCName", CategoryString), false},
		{"Name colon", "a:b", xsd("Name", CategoryString), true},
		{"NMTOKENS", "a b c", xsd("NMTOKENS", CategoryString), true},
		{"anyURI relative", "relative", xsd("anyURI", CategoryString), false},
		{"hexBinary", "0FB7", xsd("hexBinary", CategoryString), true},
		{"hexBinary odd", "0FB", xsd("hexBinary", CategoryString), false},
		{"base64Binary", "aGVsbG8=", xsd("base64Binary", CategoryString), true},
		{"base64Binary garbage", "@@@", xsd("base64Binary", CategoryString), false},
		{"XMLLiteral", "<b>bold</b>", RDFXMLLiteral, true},
		{"XMLLiteral unbalanced", "<b>bold", RDFXMLLiteral, false},
		{"custom numeric decimal", "3.5", Datatype{Namespace: "http://example.org/dt#", Name: "money", Category: CategoryNumeric}, true},
		{"custom numeric text", "lots", Datatype{Namespace: "http://example.org/dt#", Name: "money", Category: CategoryNumeric}, false},
		{"custom string", "anything", Datatype{Namespace: "http://example.org/dt#", Name: "code"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLexical(tt.value, tt.dt)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidLiteral)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Numeric ")
	assert.NoError(t, err)
	assert.Equal(t, CategoryNumeric, c)
	assert.Equal(t, "datetime", CategoryDateTime.String())

	_, err = ParseCategory("bogus")
	assert.Error(t, err)
}

package rdf

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	decimalPattern  = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)
	integerPattern  = regexp.MustCompile(`^[+-]?\d+$`)
	doublePattern   = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
	durationPattern = regexp.MustCompile(`^-?P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)
	langPattern     = regexp.MustCompile(`^[a-zA-Z]+(-[a-zA-Z0-9]+)*$`)
)

// Layouts for the date and time types. Each type accepts a timezone-less
// form and a timezone-qualified form. time.Parse accepts fractional seconds
// after the seconds field even though the layouts omit them.
var dateTimeLayouts = map[string][]string{
	"dateTime":      {"2006-01-02T15:04:05", "2006-01-02T15:04:05Z07:00"},
	"dateTimeStamp": {"2006-01-02T15:04:05Z07:00"},
	"date":          {"2006-01-02", "2006-01-02Z07:00"},
	"time":          {"15:04:05", "15:04:05Z07:00"},
	"gYearMonth":    {"2006-01", "2006-01Z07:00"},
	"gYear":         {"2006", "2006Z07:00"},
	"gMonthDay":     {"--01-02", "--01-02Z07:00"},
	"gDay":          {"---02", "---02Z07:00"},
	"gMonth":        {"--01", "--01Z07:00"},
}

var integerBounds = map[string][2]*big.Int{
	"long":               {big.NewInt(-1 << 63), big.NewInt(1<<63 - 1)},
	"int":                {big.NewInt(-1 << 31), big.NewInt(1<<31 - 1)},
	"short":              {big.NewInt(-1 << 15), big.NewInt(1<<15 - 1)},
	"byte":               {big.NewInt(-1 << 7), big.NewInt(1<<7 - 1)},
	"unsignedLong":       {big.NewInt(0), new(big.Int).SetUint64(1<<64 - 1)},
	"unsignedInt":        {big.NewInt(0), big.NewInt(1<<32 - 1)},
	"unsignedShort":      {big.NewInt(0), big.NewInt(1<<16 - 1)},
	"unsignedByte":       {big.NewInt(0), big.NewInt(1<<8 - 1)},
	"nonNegativeInteger": {big.NewInt(0), nil},
	"positiveInteger":    {big.NewInt(1), nil},
	"nonPositiveInteger": {nil, big.NewInt(0)},
	"negativeInteger":    {nil, big.NewInt(-1)},
	"integer":            {nil, nil},
}

// ValidateLexical checks value against the lexical space of dt. The check is
// selected by the datatype category and, for XSD types, by the type name.
func ValidateLexical(value string, dt Datatype) error {
	var err error
	switch dt.Category {
	case CategoryString:
		err = validateStringLexical(value, dt)
	case CategoryBoolean:
		if value != "true" && value != "false" {
			err = errors.New("expected true or false")
		}
	case CategoryDateTime:
		err = validateDateTimeLexical(value, dt)
	case CategoryTimeSpan:
		err = validateDurationLexical(value, dt)
	case CategoryNumeric:
		err = validateNumericLexical(value, dt)
	}
	if err != nil {
		return fmt.Errorf("%w: %q is not a valid %s: %v", ErrInvalidLiteral, value, dt.QName(), err)
	}
	return nil
}

func validateStringLexical(value string, dt Datatype) error {
	if dt.Namespace == rdfNS && dt.Name == "XMLLiteral" {
		return validateXMLFragment(value)
	}
	if dt.Namespace != xsdNS {
		return nil
	}
	switch dt.Name {
	case "anyURI":
		return validateAbsoluteIRI(value)
	case "normalizedString":
		if strings.ContainsAny(value, "\r\n\t") {
			return errors.New("carriage return, line feed or tab")
		}
	case "token":
		if strings.ContainsAny(value, "\r\n\t") || strings.TrimSpace(value) != value || strings.Contains(value, "  ") {
			return errors.New("not a collapsed token")
		}
	case "language":
		if !langPattern.MatchString(value) {
			return errors.New("malformed language tag")
		}
	case "Name":
		if !isXMLName(value, true) {
			return errors.New("not an XML Name")
		}
	case "NCName", "ID", "IDREF", "ENTITY":
		if !isXMLName(value, false) {
			return errors.New("not an XML NCName")
		}
	case "NMTOKEN":
		if !isXMLNmtoken(value) {
			return errors.New("not an XML NMTOKEN")
		}
	case "NMTOKENS":
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return errors.New("empty token list")
		}
		for _, field := range fields {
			if !isXMLNmtoken(field) {
				return fmt.Errorf("%q is not an XML NMTOKEN", field)
			}
		}
	case "base64Binary":
		compact := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, value)
		if _, err := base64.StdEncoding.DecodeString(compact); err != nil {
			return err
		}
	case "hexBinary":
		if len(value)%2 != 0 {
			return errors.New("odd number of hex digits")
		}
		for i := 0; i < len(value); i++ {
			if !isHexDigit(value[i]) {
				return errors.New("non-hex character")
			}
		}
	}
	return nil
}

func validateXMLFragment(value string) error {
	decoder := xml.NewDecoder(strings.NewReader("<fragment>" + value + "</fragment>"))
	decoder.Strict = true
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func isXMLName(value string, allowColon bool) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		if r == ':' {
			if !allowColon {
				return false
			}
			continue
		}
		if i == 0 {
			if !(r == '_' || unicode.IsLetter(r)) {
				return false
			}
			continue
		}
		if !isXMLNameRune(r) {
			return false
		}
	}
	return true
}

func isXMLNmtoken(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r != ':' && !isXMLNameRune(r) {
			return false
		}
	}
	return true
}

func isXMLNameRune(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == 0xB7 ||
		unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

func validateDateTimeLexical(value string, dt Datatype) error {
	layouts, ok := dateTimeLayouts[dt.Name]
	if !ok || dt.Namespace != xsdNS {
		for _, candidates := range dateTimeLayouts {
			if parseAnyLayout(value, candidates) == nil {
				return nil
			}
		}
		return errors.New("unrecognized date/time form")
	}
	return parseAnyLayout(value, layouts)
}

func parseAnyLayout(value string, layouts []string) error {
	var err error
	for _, layout := range layouts {
		if _, err = time.Parse(layout, value); err == nil {
			return nil
		}
	}
	return err
}

func validateDurationLexical(value string, dt Datatype) error {
	if !durationPattern.MatchString(value) || strings.HasSuffix(value, "P") || strings.HasSuffix(value, "T") {
		return errors.New("malformed duration")
	}
	body := value[strings.IndexByte(value, 'P')+1:]
	datePart, _, hasTime := strings.Cut(body, "T")
	switch {
	case dt.isXSD("dayTimeDuration"):
		if strings.ContainsAny(datePart, "YM") {
			return errors.New("day-time duration with year or month")
		}
	case dt.isXSD("yearMonthDuration"):
		if hasTime || strings.Contains(datePart, "D") {
			return errors.New("year-month duration with days or time")
		}
	}
	return nil
}

func validateNumericLexical(value string, dt Datatype) error {
	if dt.isXSD("float", "double") || (dt.Namespace != xsdNS && !decimalPattern.MatchString(value)) {
		switch value {
		case "INF", "+INF", "-INF", "NaN":
			return nil
		}
		if !doublePattern.MatchString(value) {
			return errors.New("not a floating-point number")
		}
		bits := 64
		if dt.isXSD("float") {
			bits = 32
		}
		_, err := strconv.ParseFloat(value, bits)
		return err
	}
	if !decimalPattern.MatchString(value) {
		return errors.New("not a decimal number")
	}
	bounds, isInteger := integerBounds[dt.Name]
	if dt.Namespace != xsdNS || !isInteger {
		return nil
	}
	if !integerPattern.MatchString(value) {
		return errors.New("not an integer")
	}
	n, ok := new(big.Int).SetString(strings.TrimPrefix(value, "+"), 10)
	if !ok {
		return errors.New("not an integer")
	}
	if bounds[0] != nil && n.Cmp(bounds[0]) < 0 {
		return fmt.Errorf("below minimum %s", bounds[0])
	}
	if bounds[1] != nil && n.Cmp(bounds[1]) > 0 {
		return fmt.Errorf("above maximum %s", bounds[1])
	}
	return nil
}

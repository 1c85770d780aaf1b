package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/giongto35/movierec/pkg/encoder"
	"github.com/go-andiamo/splitter"
)

var optionSplitter = splitter.MustCreateSplitter(' ', splitter.DoubleQuotesBackSlashEscaped).
	AddDefaultOptions(splitter.Trim(" \t\r\n"), splitter.IgnoreEmpties, splitter.UnescapeQuotes)

// ParseOptions splits custom encoder options into ffmpeg arguments.
// Options are `-name [value]` pairs, values with spaces go in double quotes:
//
//	-crf 20 -x264-params "keyint=60:min-keyint=60" -tune film
func ParseOptions(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: custom preset without options", encoder.ErrMalformedOptions)
	}
	parts, err := optionSplitter.Split(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", encoder.ErrMalformedOptions, err)
	}

	args := make([]string, 0, len(parts))
	value := false
	for _, p := range parts {
		p = unquote(p)
		if isFlag(p) {
			args = append(args, p)
			value = true
			continue
		}
		if !value {
			return nil, fmt.Errorf("%w: value %q has no option", encoder.ErrMalformedOptions, p)
		}
		args = append(args, p)
		value = false
	}
	return args, nil
}

func isFlag(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	// negative numbers are values
	_, err := strconv.ParseFloat(s, 64)
	return err != nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if v, err := strconv.Unquote(s); err == nil {
			return v
		}
		return s[1 : len(s)-1]
	}
	return s
}

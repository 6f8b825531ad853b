package sensor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"locus.klederson.com/internal/locus"
)

// ErrBadSample is wrapped by every parse failure.
var ErrBadSample = errors.New("bad sample")

// sentencePrefix is an optional NMEA-style tag some IMU bridges emit.
const sentencePrefix = "$YPR"

// ParseLine parses "yaw,pitch" (comma, space or tab separated). Extra
// trailing fields such as roll are ignored.
func ParseLine(line string) (locus.Sample, error) {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, sentencePrefix)
	s = strings.TrimLeft(s, ", ")

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	if len(fields) < 2 {
		return locus.Sample{}, fmt.Errorf("%w: want yaw,pitch, got %q", ErrBadSample, line)
	}

	yaw, err := parseAngle(fields[0])
	if err != nil {
		return locus.Sample{}, fmt.Errorf("%w: yaw %q: %v", ErrBadSample, fields[0], err)
	}
	pitch, err := parseAngle(fields[1])
	if err != nil {
		return locus.Sample{}, fmt.Errorf("%w: pitch %q: %v", ErrBadSample, fields[1], err)
	}
	return locus.Sample{Yaw: yaw, Pitch: pitch}, nil
}

func parseAngle(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not finite")
	}
	return v, nil
}

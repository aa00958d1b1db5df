package model

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Confidence is an ordinal confidence level attached to a tag cell.
type Confidence uint8

const (
	// None marks the absence of a label. It is never stored explicitly.
	None Confidence = iota
	// Low is the weakest stored confidence.
	Low
	// Medium is the intermediate stored confidence.
	Medium
	// High is the strongest stored confidence.
	High
)

// MaxConfidence is the largest valid confidence value.
const MaxConfidence = High

// StoredLevels lists the confidence values that occupy storage, in ascending order.
var StoredLevels = [...]Confidence{Low, Medium, High}

// Valid reports whether c is within the confidence domain (None..High).
func (c Confidence) Valid() bool {
	return c <= MaxConfidence
}

// Stored reports whether c is a value that may appear in compressed storage.
func (c Confidence) Stored() bool {
	return c >= Low && c <= High
}

// String returns the upper-case level name.
func (c Confidence) String() string {
	switch c {
	case None:
		return "NONE"
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	default:
		return "Confidence(" + strconv.Itoa(int(c)) + ")"
	}
}

// ParseConfidence parses a level name (case-insensitive) or a decimal digit.
func ParseConfidence(s string) (Confidence, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE":
		return None, nil
	case "LOW":
		return Low, nil
	case "MEDIUM":
		return Medium, nil
	case "HIGH":
		return High, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return None, fmt.Errorf("invalid confidence %q", s)
	}
	return FromInt(n)
}

// FromInt converts an integer in [0,3] to a Confidence.
func FromInt(n int) (Confidence, error) {
	if n < 0 || n > int(MaxConfidence) {
		return None, fmt.Errorf("invalid confidence %d (must be 0-3)", n)
	}
	return Confidence(n), nil
}

// MarshalJSON encodes the confidence as its integer level.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON accepts either an integer level or a level name.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := FromInt(n)
		if err != nil {
			return err
		}
		*c = v
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid confidence %s", data)
	}
	v, err := ParseConfidence(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

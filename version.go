package budget

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Version is the stamp carried by every entity revision. Tag identifies the
// device that authored the revision, Counter is a globally comparable integer
// minted strictly above any counter previously observed by any device (see
// DeviceRegistry.MintRange). Only the counter participates in conflict
// resolution; the tag is authorship information.
type Version struct {
	Tag     string
	Counter int64
}

var versionPattern = regexp.MustCompile(`^([A-Z])-(\d+)$`)

// V is a shorthand constructor for a version stamp.
func V(tag string, counter int64) Version { return Version{Tag: tag, Counter: counter} }

// String formats the stamp in its wire form, e.g. "A-86".
func (v Version) String() string { return fmt.Sprintf("%s-%d", v.Tag, v.Counter) }

// IsZero reports whether the stamp is unset.
func (v Version) IsZero() bool { return v == Version{} }

// ParseVersion parses a version stamp in its wire form, e.g. "A-86".
func ParseVersion(str string) (Version, error) {
	m := versionPattern.FindStringSubmatch(str)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version stamp %q, want e.g. \"A-86\"", str)
	}
	var counter int64
	// the pattern guarantees digits only, Sscanf cannot fail on the value.
	fmt.Sscanf(m[2], "%d", &counter)
	return Version{Tag: m[1], Counter: counter}, nil
}

func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Version) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := ParseVersion(str)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

var _ json.Marshaler = (*Version)(nil)
var _ json.Unmarshaler = (*Version)(nil)

package budget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// A delta segment is one JSON document: a small header identifying the
// authoring device and the inclusive counter range, plus the list of
// mutation records. Each record is the full envelope and field set of one
// entity revision, with an entityType discriminator.

type deltaDoc struct {
	ShortDeviceID string            `json:"shortDeviceId"`
	DeviceGUID    string            `json:"deviceGuid"`
	StartVersion  int64             `json:"startVersion"`
	EndVersion    int64             `json:"endVersion"`
	PublishTime   string            `json:"publishTime"`
	FormatVersion string            `json:"formatVersion"`
	Items         []json.RawMessage `json:"items"`
}

// segmentName formats the filename a segment is known by: its inclusive
// counter range in decimal, e.g. "11_15.delta".
func segmentName(start, end int64) string {
	return fmt.Sprintf("%d_%d%s", start, end, deltaExt)
}

// parseSegmentName parses a segment filename back into its counter range.
func parseSegmentName(name string) (start, end int64, err error) {
	var n int
	n, err = fmt.Sscanf(name, "%d_%d"+deltaExt, &start, &end)
	if err != nil || n != 2 {
		return 0, 0, fmt.Errorf("invalid segment filename %q, want \"<start>_<end>%s\"", name, deltaExt)
	}
	if start <= 0 || end < start {
		return 0, 0, fmt.Errorf("invalid segment range %d_%d in %q", start, end, name)
	}
	return start, end, nil
}

// DecodeDelta parses a delta segment into its ordered list of entity
// revisions. A record with an unknown entityType discriminator is skipped
// with a warning: newer devices may write kinds this version does not know,
// and one such record must not block the rest of the segment. Any other
// parse failure aborts the segment.
func DecodeDelta(data []byte) ([]Entity, error) {
	var doc deltaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not parse segment document: %w", err)
	}
	var entities []Entity
	for i, raw := range doc.Items {
		var discriminator struct {
			EntityType Kind   `json:"entityType"`
			EntityID   string `json:"entityId"`
		}
		if err := json.Unmarshal(raw, &discriminator); err != nil {
			return nil, fmt.Errorf("could not identify record %d: %w", i, err)
		}
		entity, err := newEntity(discriminator.EntityType)
		if err != nil {
			log.Printf("warning: skipping record %d: %v", i, &UnknownEntityTypeError{
				EntityType: string(discriminator.EntityType),
				EntityID:   discriminator.EntityID,
			})
			continue
		}
		if err := json.Unmarshal(raw, entity); err != nil {
			return nil, fmt.Errorf("could not parse %s record %q: %w", discriminator.EntityType, discriminator.EntityID, err)
		}
		if err := entity.validate(); err != nil {
			return nil, fmt.Errorf("invalid %s record %q: %w", discriminator.EntityType, discriminator.EntityID, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// EncodeDelta serializes entity revisions into a delta segment document
// authored by the given device over the given counter range. Records carry
// their full field set: replaying a segment is a whole-record replace, never
// a field-level patch.
func EncodeDelta(device DeviceRecord, start, end int64, entities []Entity) ([]byte, error) {
	doc := deltaDoc{
		ShortDeviceID: device.ShortDeviceID,
		DeviceGUID:    device.DeviceGUID,
		StartVersion:  start,
		EndVersion:    end,
		PublishTime:   time.Now().UTC().Format(time.RFC1123),
		FormatVersion: metaFormatVersion,
		Items:         make([]json.RawMessage, 0, len(entities)),
	}
	for _, e := range entities {
		raw, err := marshalDeltaItem(e)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, raw)
	}
	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// marshalDeltaItem serializes one revision with its entityType discriminator
// inlined next to the envelope fields.
func marshalDeltaItem(e Entity) (json.RawMessage, error) {
	fields, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("could not encode %s record %q: %w", e.What(), e.ID(), err)
	}
	// UseNumber keeps integer amounts as literals instead of float64,
	// which would re-encode large values in scientific notation.
	dec := json.NewDecoder(bytes.NewReader(fields))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	m["entityType"] = e.What()
	return json.Marshal(m)
}

// Package models defines the data shapes shared by handlers, services, and repositories.
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Count is a review count that coerces JSON numbers and numeric strings to an
// integer on decode. Non-numeric input coerces to zero instead of failing the
// whole write, mirroring the lenient integer parsing the API has always had.
type Count int

// UnmarshalJSON accepts 10, "10", " 10", 10.9 (truncated), and anything else as 0.
func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		*c = Count(n)
		return nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*c = Count(int(f))
		return nil
	}

	*c = 0

	return nil
}

// Int returns the count as a plain int.
func (c Count) Int() int {
	return int(c)
}

// GameRecord is a single game's stored review-count data.
// The stored embedding is never exposed through the CRUD surface.
type GameRecord struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Developer string    `json:"developer"`
	Positive  int       `json:"positive"`
	Negative  int       `json:"negative"`
}

// EmbeddingText is the text embedded into combined_embedding: the name and
// developer joined by a single space, the same input the stored vectors were
// generated from.
func (g GameRecord) EmbeddingText() string {
	return g.Name + " " + g.Developer
}

// GameWithScore is a vector search hit: the record plus its similarity score.
type GameWithScore struct {
	GameRecord
	Score float64 `json:"score"`
}

// WriteGameRequest carries the four client-writable fields for create and
// update. Counts are pointers so presence can be validated separately from
// value (zero is a valid count).
type WriteGameRequest struct {
	Name      string `json:"name"`
	Developer string `json:"developer"`
	Positive  *Count `json:"positive"`
	Negative  *Count `json:"negative"`
}

// CreateGameResponse echoes the inserted record along with its new identifier.
type CreateGameResponse struct {
	Message string     `json:"message"`
	GameID  uuid.UUID  `json:"gameId"`
	Game    GameRecord `json:"game"`
}

// UpdateGameResponse echoes the updated record. The identifier inside Game is
// the raw path value the caller sent, an asymmetry with create that the API
// has always had.
type UpdateGameResponse struct {
	Message string      `json:"message"`
	Game    UpdatedGame `json:"game"`
}

// UpdatedGame is the update echo body; ID is the raw path identifier.
type UpdatedGame struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Developer string `json:"developer"`
	Positive  int    `json:"positive"`
	Negative  int    `json:"negative"`
}

// DeleteGameResponse acknowledges a successful delete.
type DeleteGameResponse struct {
	Message string `json:"message"`
}

// SummaryStats is the descriptive-statistics block relayed from the
// statistics service. Declared here for clients; the API itself relays the
// upstream body verbatim without reshaping it.
type SummaryStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// StatisticsResponse is the statistics service payload: a base64 chart image
// plus summary statistics.
type StatisticsResponse struct {
	ImageBase64 string       `json:"image_base64"`
	Stats       SummaryStats `json:"stats"`
}

// MLResult is an opaque per-model payload from the ML service. The API and
// client treat it as raw JSON and only re-render it.
type MLResult = json.RawMessage

// HasField reports whether the raw ML payload contains the given top-level
// key. Rendering code uses it to skip models that returned an error object.
func HasField(raw json.RawMessage, key string) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}

	v, ok := m[key]

	return ok && !bytes.Equal(v, []byte("null"))
}

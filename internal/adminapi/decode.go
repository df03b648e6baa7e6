package adminapi

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/directory"
)

// ErrMalformed is returned when a listing envelope cannot be used at all.
var ErrMalformed = errors.New("malformed response")

// Listing is a decoded GET /api/admin/users document.
//
// Stats is nil when the server sent none or sent something unusable.
// Dropped counts user records that were discarded for lacking an id or an
// email.
type Listing struct {
	Accounts []directory.Account
	Stats    *directory.Stats
	Dropped  int
}

// DecodeListResponse parses a JSON listing body.
func DecodeListResponse(data []byte) (*Listing, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrMalformed
	}
	return DecodeListDocument(m)
}

// DecodeListDocument parses an already decoded listing (JSON object or the
// AsMap form of a protobuf Struct). The envelope must carry a "users" array;
// individual records are normalized and bad ones skipped.
func DecodeListDocument(doc map[string]any) (*Listing, error) {
	raw, ok := doc["users"].([]any)
	if !ok {
		return nil, ErrMalformed
	}

	l := &Listing{Accounts: make([]directory.Account, 0, len(raw))}
	for _, item := range raw {
		rec, ok := item.(map[string]any)
		if !ok {
			l.Dropped++
			continue
		}
		a, ok := decodeAccount(rec)
		if !ok {
			l.Dropped++
			continue
		}
		l.Accounts = append(l.Accounts, a)
	}

	if s, ok := doc["stats"].(map[string]any); ok {
		l.Stats = decodeStats(s)
	}
	return l, nil
}

// DecodeError extracts the "error" message of an error body, or "".
func DecodeError(data []byte) string {
	var e ErrorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		return ""
	}
	return strings.TrimSpace(e.Error)
}

func decodeAccount(rec map[string]any) (directory.Account, bool) {
	id := str(rec["id"])
	email := str(rec["email"])
	if id == "" || email == "" {
		return directory.Account{}, false
	}

	a := directory.Account{
		ID:           id,
		Email:        email,
		DisplayName:  directory.DisplayName(str(rec["name"]), email),
		AuthProvider: str(rec["provider"]),
	}
	if a.AuthProvider == "" {
		a.AuthProvider = directory.DefaultProvider
	}
	if t, ok := parseTime(rec["createdAt"]); ok {
		a.CreatedAt = t
	}
	last, ok := parseTime(rec["lastSignIn"])
	if !ok {
		last, ok = parseTime(rec["lastSignInAt"])
	}
	if ok {
		a.LastSignInAt = &last
	}
	if b, ok := rec["isSubscribed"].(bool); ok {
		a.IsSubscribed = b
	}
	return a, true
}

func decodeStats(m map[string]any) *directory.Stats {
	total, ok := count(m["total"])
	if !ok {
		return nil
	}
	subscribed, ok := count(m["subscribed"])
	if !ok {
		return nil
	}
	nonSubscribed, ok := count(m["nonSubscribed"])
	if !ok {
		nonSubscribed = total - subscribed
	}

	s := &directory.Stats{
		Total:         total,
		Subscribed:    subscribed,
		NonSubscribed: nonSubscribed,
	}
	if rate, ok := number(m["conversionRate"]); ok {
		s.ConversionRate = rate
	} else {
		s.ConversionRate = directory.ConversionRate(total, subscribed)
	}
	return s
}

func str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func parseTime(v any) (time.Time, bool) {
	s := str(v)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// number accepts JSON numbers and numeric strings ("25.0").
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func count(v any) (int, bool) {
	f, ok := number(v)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

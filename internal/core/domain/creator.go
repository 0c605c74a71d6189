package domain

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CreatorProfile is the stored external profile of a marketplace creator,
// keyed uniquely by Handle. Nil fields are unknown, not zero.
type CreatorProfile struct {
	ID             string     `json:"id"`
	Handle         string     `json:"creator_handle_name"`
	DisplayName    *string    `json:"display_name"`
	Bio            *string    `json:"bio"`
	Followers      *int64     `json:"follower_count"`
	Following      *int64     `json:"following_count"`
	Likes          *int64     `json:"likes_count"`
	MedianViews    *int64     `json:"median_views"`
	Price          *int64     `json:"price"`
	Currency       *string    `json:"currency"`
	ContentLabel   *string    `json:"content_label"`
	VideoCount     *int64     `json:"video_count"`
	EngagementRate *float64   `json:"engagement_rate"`
	LastSyncedAt   *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreatorRecord is the coerced write set produced from one partner payload.
// Only non-nil fields are written; nil means the upstream value was absent or
// failed coercion.
type CreatorRecord struct {
	Handle         string
	DisplayName    *string
	Bio            *string
	Followers      *int64
	Following      *int64
	Likes          *int64
	MedianViews    *int64
	Price          *int64
	Currency       *string
	ContentLabel   *string
	VideoCount     *int64
	EngagementRate *float64
}

// MinimalDisplayName returns the display name for a placeholder row.
func (r *CreatorRecord) MinimalDisplayName() string {
	if r.DisplayName != nil && *r.DisplayName != "" {
		return *r.DisplayName
	}
	return r.Handle
}

// NormalizeHandle trims whitespace and a leading @ from a creator handle.
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// NewCreatorRecord coerces a raw partner payload into a CreatorRecord.
// Keys are looked up snake_case first, then camelCase.
func NewCreatorRecord(handle string, data map[string]any) *CreatorRecord {
	p := payload(data)
	return &CreatorRecord{
		Handle:         NormalizeHandle(handle),
		DisplayName:    coerceText(p.lookup("display_name", "displayName")),
		Bio:            coerceText(p.lookup("bio", "biography")),
		Followers:      coerceCount(p.lookup("followers_count", "followersCount", "follower_count", "followerCount")),
		Following:      coerceCount(p.lookup("following_count", "followingCount")),
		Likes:          coerceCount(p.lookup("likes_count", "likesCount")),
		MedianViews:    coerceCount(p.lookup("median_views", "medianViews")),
		Price:          coerceCount(p.lookup("price")),
		Currency:       coerceText(p.lookup("currency")),
		ContentLabel:   coerceText(p.lookup("content_label", "contentLabel", "industry_label", "industryLabel")),
		VideoCount:     coerceCount(p.lookup("video_count", "videoCount", "videos_count", "videosCount")),
		EngagementRate: coerceRate(p.lookup("engagement_rate", "engagementRate")),
	}
}

type payload map[string]any

// lookup returns the first present, non-null value among keys.
func (p payload) lookup(keys ...string) any {
	for _, k := range keys {
		if v, ok := p[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

var maxCount = decimal.NewFromInt(math.MaxInt64)

func coerceCount(v any) *int64 {
	d, ok := toDecimal(v)
	if !ok {
		return nil
	}
	d = d.Round(0)
	if d.Abs().GreaterThan(maxCount) {
		return nil
	}
	n := d.IntPart()
	return &n
}

func coerceRate(v any) *float64 {
	d, ok := toDecimal(v)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

func coerceText(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

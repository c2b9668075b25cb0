package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/reelzone/backend/internal/models"
)

// SortField names a sortable video attribute.
type SortField string

const (
	SortNone      SortField = ""
	SortTitle     SortField = "title"
	SortCreatedAt SortField = "createdAt"
	SortCategory  SortField = "category"
	SortClicks    SortField = "clicks"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseSort validates a sort field and direction. Blank values select storage order
// and descending respectively.
func ParseSort(field, order string) (SortField, Order, error) {
	f := SortField(strings.TrimSpace(field))
	switch f {
	case SortNone, SortTitle, SortCreatedAt, SortCategory, SortClicks:
	default:
		return "", "", fmt.Errorf("unknown sort field %q", field)
	}

	o := Order(strings.ToLower(strings.TrimSpace(order)))
	switch o {
	case "":
		o = Desc
	case Asc, Desc:
	default:
		return "", "", fmt.Errorf("unknown sort order %q", order)
	}
	return f, o, nil
}

// Query combines the catalog filters. Zero fields do not filter.
type Query struct {
	Term     string
	Category models.Category
	Tag      string
	Sort     SortField
	Order    Order
}

// Find runs q against the catalog.
func (r *Repository) Find(ctx context.Context, q Query) []models.Video {
	match := searchMatcher(q.Term)
	var byTag func(models.Video) bool
	if strings.TrimSpace(q.Tag) != "" {
		byTag = tagMatcher(q.Tag)
	}

	videos := filter(r.List(ctx), func(v models.Video) bool {
		if q.Category != "" && v.Category() != q.Category {
			return false
		}
		if byTag != nil && !byTag(v) {
			return false
		}
		return match(v)
	})
	Sort(videos, q.Sort, q.Order)
	return videos
}

// Sort orders videos in place by field. SortNone leaves storage order untouched.
// Ties keep their relative order.
func Sort(videos []models.Video, field SortField, order Order) {
	var less func(a, b models.Video) bool
	switch field {
	case SortTitle:
		less = func(a, b models.Video) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case SortCreatedAt:
		less = func(a, b models.Video) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortCategory:
		less = func(a, b models.Video) bool { return a.Category() < b.Category() }
	case SortClicks:
		less = func(a, b models.Video) bool { return a.Clicks < b.Clicks }
	default:
		return
	}

	sort.SliceStable(videos, func(i, j int) bool {
		if order == Asc {
			return less(videos[i], videos[j])
		}
		return less(videos[j], videos[i])
	})
}

package utils

import (
	"net/http"
	"strconv"
	"time"
)

type QueryOptions struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
	Search        string
	StartDate     time.Time
	EndDate       time.Time
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	opts := QueryOptions{
		Page:          page,
		Limit:         limit,
		Status:        q.Get("status"),
		PaymentStatus: q.Get("paymentStatus"),
		Search:        q.Get("search"),
	}

	if s := q.Get("startDate"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			opts.StartDate = t
		}
	}
	if s := q.Get("endDate"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			// inclusive end of day
			opts.EndDate = t.Add(24*time.Hour - time.Nanosecond)
		}
	}

	return opts
}

func (o QueryOptions) Skip() int64 {
	return int64((o.Page - 1) * o.Limit)
}

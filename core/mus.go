package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the records badger persists.
// Field order is part of the stored format; append new fields at the end
// rather than reordering.

var (
	// IDMUS serializes record identifiers.
	IDMUS = idMUS{}
	// ArticleMUS serializes enriched articles.
	ArticleMUS = articleMUS{}
	// RuleMUS serializes publishing rules.
	RuleMUS = ruleMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// timeMUS stores timestamps as UnixMicro, matching storage precision for
// processed-at ordering. Times come back in UTC.
type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeMUS) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func (timeMUS) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type articleMUS struct{}

func (articleMUS) Marshal(a Article, bs []byte) (n int) {
	n = IDMUS.Marshal(a.Id, bs)
	n += ord.String.Marshal(a.Title, bs[n:])
	n += ord.String.Marshal(a.Link, bs[n:])
	n += ord.String.Marshal(a.Source, bs[n:])
	n += ord.String.Marshal(a.PublishedAt, bs[n:])
	n += ord.String.Marshal(a.Content, bs[n:])
	n += ord.String.Marshal(a.ContentHash, bs[n:])
	n += ord.String.Marshal(string(a.Category), bs[n:])
	n += ord.String.Marshal(a.Summary, bs[n:])
	n += timeMUS{}.Marshal(a.ProcessedAt, bs[n:])
	n += ord.Bool.Marshal(a.ShouldPublish, bs[n:])
	n += ord.String.Marshal(a.PublishDecisionReason, bs[n:])
	return n
}

func (articleMUS) Unmarshal(bs []byte) (a Article, n int, err error) {
	var n1 int
	if a.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if a.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	if a.Link, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	if a.Source, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	if a.PublishedAt, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	if a.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	if a.ContentHash, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	var cat string
	if cat, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	a.Category = Category(cat)
	n += n1
	if a.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	if a.ProcessedAt, n1, err = (timeMUS{}).Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	if a.ShouldPublish, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	if a.PublishDecisionReason, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + n1, err
	}
	n += n1
	return a, n, nil
}

func (articleMUS) Size(a Article) (size int) {
	size = IDMUS.Size(a.Id)
	size += ord.String.Size(a.Title)
	size += ord.String.Size(a.Link)
	size += ord.String.Size(a.Source)
	size += ord.String.Size(a.PublishedAt)
	size += ord.String.Size(a.Content)
	size += ord.String.Size(a.ContentHash)
	size += ord.String.Size(string(a.Category))
	size += ord.String.Size(a.Summary)
	size += timeMUS{}.Size(a.ProcessedAt)
	size += ord.Bool.Size(a.ShouldPublish)
	size += ord.String.Size(a.PublishDecisionReason)
	return size
}

type ruleMUS struct{}

func (ruleMUS) Marshal(r PublishingRule, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(string(r.Category), bs[n:])
	n += varint.Int.Marshal(r.MinSummaryLength, bs[n:])
	n += timeMUS{}.Marshal(r.CreatedAt, bs[n:])
	return n
}

func (ruleMUS) Unmarshal(bs []byte) (r PublishingRule, n int, err error) {
	var n1 int
	if r.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	var cat string
	if cat, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	r.Category = Category(cat)
	n += n1
	if r.MinSummaryLength, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.CreatedAt, n1, err = (timeMUS{}).Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	return r, n, nil
}

func (ruleMUS) Size(r PublishingRule) (size int) {
	size = IDMUS.Size(r.Id)
	size += ord.String.Size(string(r.Category))
	size += varint.Int.Size(r.MinSummaryLength)
	size += timeMUS{}.Size(r.CreatedAt)
	return size
}

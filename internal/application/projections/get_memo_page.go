package projections

import (
	"context"
	"fmt"
	"html"
	"time"

	"dugout/internal/domain/access"
	"dugout/internal/domain/calendar"
	domainMemo "dugout/internal/domain/memo"
)

// DefaultMemoPageSize is the number of memos per feed page.
const DefaultMemoPageSize = 10

// NoMemosMessage replaces the feed when the first page is empty.
const NoMemosMessage = "まだメモはありません。"

// MemoPageQuery carries query parameters. An empty Cursor requests the first page.
type MemoPageQuery struct {
	Cursor string
	Viewer access.Viewer
}

// MemoEntry is one rendered memo.
type MemoEntry struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	BodyHTML    string    `json:"bodyHtml"`
	Preview     string    `json:"preview"`
	Truncated   bool      `json:"truncated"`
	CreatedAt   time.Time `json:"createdAt"`
	DisplayTime string    `json:"displayTime"`
	CanDelete   bool      `json:"canDelete"`
}

// MemoPageResult carries one feed page.
// A non-reset empty page means the feed is exhausted; the caller keeps what it has.
type MemoPageResult struct {
	Memos        []MemoEntry `json:"memos"`
	Reset        bool        `json:"reset"`
	NextCursor   string      `json:"nextCursor,omitempty"`
	ShowLoadMore bool        `json:"showLoadMore"`
	Placeholder  string      `json:"placeholder,omitempty"`
}

// MemoPageDeps holds dependencies for QueryMemoPage.
type MemoPageDeps struct {
	MemoStore      MemoStore
	MemberStore    MemberStore
	PageSize       int
	Location       *time.Location
	RenderMarkdown func(string) string
}

// QueryMemoPage loads one page of the notes feed, newest first.
// PRE: deps.Location is non-nil
// POST: ShowLoadMore is true exactly when the page is full
// INVARIANT: author names resolve live member name, then snapshot, then "Unknown"
func QueryMemoPage(ctx context.Context, query MemoPageQuery, deps MemoPageDeps) (MemoPageResult, error) {
	size := deps.PageSize
	if size <= 0 {
		size = DefaultMemoPageSize
	}
	var after *domainMemo.Cursor
	if query.Cursor != "" {
		c, err := domainMemo.DecodeCursor(query.Cursor)
		if err != nil {
			return MemoPageResult{}, fmt.Errorf("memo page: %w", err)
		}
		after = &c
	}

	memos, err := deps.MemoStore.ListPage(ctx, after, size)
	if err != nil {
		return MemoPageResult{}, err
	}
	result := MemoPageResult{Memos: []MemoEntry{}, Reset: after == nil}
	if len(memos) == 0 {
		if result.Reset {
			result.Placeholder = NoMemosMessage
		}
		return result, nil
	}

	members, err := deps.MemberStore.List(ctx)
	if err != nil {
		return MemoPageResult{}, err
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	render := deps.RenderMarkdown
	if render == nil {
		render = func(s string) string { return "<p>" + html.EscapeString(s) + "</p>" }
	}
	for _, m := range memos {
		preview, truncated := m.Preview()
		result.Memos = append(result.Memos, MemoEntry{
			ID:          m.ID,
			Author:      m.ResolveAuthor(names[m.AuthorID]),
			Text:        m.Text,
			BodyHTML:    render(m.Text),
			Preview:     preview,
			Truncated:   truncated,
			CreatedAt:   m.CreatedAt,
			DisplayTime: calendar.FormatDateTime(m.CreatedAt, deps.Location),
			CanDelete:   m.DeletableBy(query.Viewer),
		})
	}

	result.ShowLoadMore = len(memos) == size
	if result.ShowLoadMore {
		last := memos[len(memos)-1]
		result.NextCursor = domainMemo.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return result, nil
}

package notify

import (
	"context"
	"sync"
	"time"
)

// BannerItem is one recorded in-app notification.
type BannerItem struct {
	Message
	DeliveredAt time.Time `json:"delivered_at"`
}

// Banner is the in-app feed: a bounded ring of recent messages served over
// HTTP. It never fails, which makes it the guaranteed delivery channel.
type Banner struct {
	mu    sync.RWMutex
	items []BannerItem
	size  int
}

// NewBanner builds a feed keeping at most size messages.
func NewBanner(size int) *Banner {
	if size <= 0 {
		size = 50
	}
	return &Banner{size: size}
}

// Name implements Channel.
func (b *Banner) Name() string { return "banner" }

// Send records the message in the feed.
func (b *Banner) Send(_ context.Context, msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, BannerItem{Message: msg, DeliveredAt: time.Now()})
	if len(b.items) > b.size {
		b.items = b.items[len(b.items)-b.size:]
	}
	return nil
}

// Recent returns the recorded messages, newest last.
func (b *Banner) Recent() []BannerItem {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]BannerItem, len(b.items))
	copy(out, b.items)
	return out
}

package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPage satisfies Page; the tab tests only care about identity.
type stubPage struct {
	Page
	id int
}

type stubBrowser struct {
	pages      []Page
	activated  []Page
	opened     int
	activateFn func(Page) error
}

func (b *stubBrowser) Pages(context.Context) ([]Page, error) { return b.pages, nil }

func (b *stubBrowser) NewPage(context.Context) (Page, error) {
	b.opened++
	p := &stubPage{id: len(b.pages)}
	b.pages = append(b.pages, p)
	return p, nil
}

func (b *stubBrowser) Activate(_ context.Context, p Page) error {
	if b.activateFn != nil {
		if err := b.activateFn(p); err != nil {
			return err
		}
	}
	b.activated = append(b.activated, p)
	return nil
}

func TestNewTabs_OpensScratchTabWhenOnlyOneExists(t *testing.T) {
	first := &stubPage{id: 0}
	b := &stubBrowser{pages: []Page{first}}

	tabs, err := NewTabs(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, 1, b.opened)
	assert.Equal(t, 2, tabs.Len())
	assert.Same(t, first, tabs.List())
	assert.NotSame(t, first, tabs.Scratch())
	assert.Equal(t, ListTab, tabs.Active())
	require.Len(t, b.activated, 1)
	assert.Same(t, first, b.activated[0])
}

func TestNewTabs_ReusesExistingTabs(t *testing.T) {
	first, middle, last := &stubPage{id: 0}, &stubPage{id: 1}, &stubPage{id: 2}
	b := &stubBrowser{pages: []Page{first, middle, last}}

	tabs, err := NewTabs(context.Background(), b)
	require.NoError(t, err)

	assert.Zero(t, b.opened)
	assert.Equal(t, 2, tabs.Len())
	assert.Same(t, first, tabs.List())
	assert.Same(t, last, tabs.Scratch())
}

func TestNewTabs_NoTabs(t *testing.T) {
	_, err := NewTabs(context.Background(), &stubBrowser{})
	assert.ErrorIs(t, err, ErrNoTabs)
}

func TestTabs_Switch(t *testing.T) {
	b := &stubBrowser{pages: []Page{&stubPage{id: 0}}}
	tabs, err := NewTabs(context.Background(), b)
	require.NoError(t, err)

	require.NoError(t, tabs.Switch(context.Background(), ScratchTab))
	assert.Equal(t, ScratchTab, tabs.Active())
	assert.Same(t, tabs.Scratch(), b.activated[len(b.activated)-1])

	require.NoError(t, tabs.Switch(context.Background(), ListTab))
	assert.Equal(t, ListTab, tabs.Active())

	assert.Error(t, tabs.Switch(context.Background(), 2))
	assert.Equal(t, ListTab, tabs.Active(), "a rejected switch keeps the active tab")
}

func TestTabs_SwitchFailureKeepsActiveIndex(t *testing.T) {
	b := &stubBrowser{pages: []Page{&stubPage{id: 0}}}
	tabs, err := NewTabs(context.Background(), b)
	require.NoError(t, err)

	errGone := errors.New("target closed")
	b.activateFn = func(Page) error { return errGone }

	err = tabs.Switch(context.Background(), ScratchTab)
	assert.ErrorIs(t, err, errGone)
	assert.Equal(t, ListTab, tabs.Active())
}

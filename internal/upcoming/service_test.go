package upcoming

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	domainerrors "authorsite/internal/errors"
)

func newMemService() (*Service, *memStore) {
	clock := newTickingClock()
	store := newMemStore(clock.Now)
	return NewServiceWithClock(store, clock.Now), store
}

func formGen() *rapid.Generator[FormData] {
	return rapid.Custom(func(t *rapid.T) FormData {
		released := NewDate(
			rapid.IntRange(2024, 2032).Draw(t, "year"),
			time.Month(rapid.IntRange(1, 12).Draw(t, "month")),
			rapid.IntRange(1, 28).Draw(t, "day"),
		)
		return FormData{
			Title:               rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ]{0,30}[A-Za-z0-9]`).Draw(t, "title"),
			Author:              rapid.StringMatching(`[A-Z][a-z]{1,10} [A-Z][a-z]{1,12}`).Draw(t, "author"),
			Description:         rapid.StringMatching(`[A-Za-z][A-Za-z0-9 .,]{0,80}[a-z.]`).Draw(t, "description"),
			CoverImageURL:       rapid.SampledFrom([]string{"", "https://cdn.example.com/a.jpg", "data:image/png;base64,iVBORw0KGgo="}).Draw(t, "cover"),
			ExpectedReleaseDate: released.String(),
			PreorderURL:         rapid.SampledFrom([]string{"", "https://shop.example.com/p/1"}).Draw(t, "preorder"),
		}
	})
}

func TestService_CreateGetRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc, _ := newMemService()
		ctx := context.Background()
		form := formGen().Draw(t, "form")

		id, err := svc.Create(ctx, form)
		require.NoError(t, err)

		got, err := svc.GetByID(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, id, got.ID)
		assert.Equal(t, form, ToFormData(got))
		if form.CoverImageURL == "" {
			assert.Equal(t, DefaultCoverImageURL, got.CoverImageURL)
		}
		if form.PreorderURL == "" {
			assert.Nil(t, got.PreorderURL)
		}
	})
}

func TestService_UpdateRefreshesUpdatedAt(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc, _ := newMemService()
		ctx := context.Background()

		id, err := svc.Create(ctx, formGen().Draw(t, "before"))
		require.NoError(t, err)
		before, err := svc.GetByID(ctx, id)
		require.NoError(t, err)

		next := formGen().Draw(t, "after")
		updatedID, err := svc.Update(ctx, id, next)
		require.NoError(t, err)
		assert.Equal(t, id, updatedID)

		after, err := svc.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, next, ToFormData(after))
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "updatedAt %v not after %v", after.UpdatedAt, before.UpdatedAt)
		assert.Equal(t, before.CreatedAt, after.CreatedAt)
	})
}

func TestService_ListAllOrderedByReleaseDate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		svc, _ := newMemService()
		ctx := context.Background()

		forms := rapid.SliceOfN(formGen(), 0, 12).Draw(t, "forms")
		for _, f := range forms {
			_, err := svc.Create(ctx, f)
			require.NoError(t, err)
		}

		books, err := svc.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, books, len(forms))
		for i := 1; i < len(books); i++ {
			if books[i].ExpectedReleaseDate.Before(books[i-1].ExpectedReleaseDate.Time) {
				t.Fatalf("books[%d] %s before books[%d] %s", i, books[i].ExpectedReleaseDate, i-1, books[i-1].ExpectedReleaseDate)
			}
		}
	})
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc, _ := newMemService()

	_, err := svc.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = svc.GetByID(context.Background(), "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestService_UpdateMissingIsNotFound(t *testing.T) {
	svc, _ := newMemService()

	_, err := svc.Update(context.Background(), "00000000-0000-0000-0000-000000000000", validForm())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestService_DeleteMissingSucceeds(t *testing.T) {
	svc, _ := newMemService()

	ok, err := svc.Delete(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_DeleteRemovesRow(t *testing.T) {
	svc, store := newMemService()
	ctx := context.Background()

	id, err := svc.Create(ctx, validForm())
	require.NoError(t, err)

	ok, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, store.rows)

	_, err = svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestService_CreateRejectsMissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	svc := NewService(store)

	store.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)

	form := validForm()
	form.Author = ""
	_, err := svc.Create(context.Background(), form)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestService_StoreErrorsAreWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	svc := NewService(store)
	ctx := context.Background()
	dbErr := errors.New("connection reset by peer")

	store.EXPECT().SelectAll(gomock.Any()).Return(nil, dbErr)
	_, err := svc.ListAll(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrStore)
	assert.ErrorIs(t, err, dbErr)

	store.EXPECT().SelectOne(gomock.Any(), "id-1").Return(Row{}, dbErr)
	_, err = svc.GetByID(ctx, "id-1")
	assert.ErrorIs(t, err, domainerrors.ErrStore)

	store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return("", dbErr)
	_, err = svc.Create(ctx, validForm())
	assert.ErrorIs(t, err, domainerrors.ErrStore)

	store.EXPECT().Update(gomock.Any(), "id-1", gomock.Any()).Return(int64(0), dbErr)
	_, err = svc.Update(ctx, "id-1", validForm())
	assert.ErrorIs(t, err, domainerrors.ErrStore)

	store.EXPECT().Delete(gomock.Any(), "id-1").Return(int64(0), dbErr)
	ok, err := svc.Delete(ctx, "id-1")
	assert.ErrorIs(t, err, domainerrors.ErrStore)
	assert.False(t, ok)
}

func TestService_UpdateSetsUpdatedAtFromClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	fixed := time.Date(2026, 10, 18, 12, 30, 0, 123456789, time.FixedZone("CEST", 2*60*60))
	svc := NewServiceWithClock(store, func() time.Time { return fixed })

	store.EXPECT().Update(gomock.Any(), "id-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, cols Columns) (int64, error) {
			assert.Equal(t, time.Date(2026, 10, 18, 10, 30, 0, 123456000, time.UTC), cols["updated_at"])
			return 1, nil
		})

	_, err := svc.Update(context.Background(), "id-1", validForm())
	require.NoError(t, err)
}

func TestService_ListAllSchemaMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	svc := NewService(store)

	bad := validRow()
	bad.Title = nil
	store.EXPECT().SelectAll(gomock.Any()).Return([]Row{validRow(), bad}, nil)

	_, err := svc.ListAll(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrSchemaMismatch)
}

package amocrm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUpserter struct {
	mock.Mock
}

func (m *mockUpserter) Search(ctx context.Context, query string) (Record, error) {
	args := m.Called(ctx, query)
	rec, _ := args.Get(0).(Record)
	return rec, args.Error(1)
}

func (m *mockUpserter) Add(ctx context.Context, fields Record) (any, error) {
	args := m.Called(ctx, fields)
	return args.Get(0), args.Error(1)
}

func (m *mockUpserter) Update(ctx context.Context, fields Record) (any, error) {
	args := m.Called(ctx, fields)
	return args.Get(0), args.Error(1)
}

func TestResolveUpsert_ExistingFieldsWin(t *testing.T) {
	ctx := context.Background()
	u := &mockUpserter{}
	u.On("Search", ctx, "v").Return(Record{"name": "v", "other": 2, "id": 5}, nil)
	u.On("Update", ctx, Record{"name": "v", "other": 2, "id": 5, "extra": true}).Return(5, nil)

	id, err := resolveUpsert(ctx, u, "name", Record{"name": "v", "other": 1, "extra": true})
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	u.AssertExpectations(t)
	u.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestResolveUpsert_NotFoundAdds(t *testing.T) {
	ctx := context.Background()
	fields := Record{"name": "v", "other": 1}

	u := &mockUpserter{}
	u.On("Search", ctx, "v").Return(nil, nil)
	u.On("Add", ctx, fields).Return(11, nil)

	id, err := resolveUpsert(ctx, u, "name", fields)
	require.NoError(t, err)
	assert.Equal(t, 11, id)

	u.AssertExpectations(t)
	u.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestResolveUpsert_EmptyKeyAddsWithoutSearch(t *testing.T) {
	tests := []struct {
		name       string
		naturalKey string
		fields     Record
	}{
		{"empty value", "name", Record{"name": "", "other": 1}},
		{"nil value", "name", Record{"name": nil, "other": 1}},
		{"missing field", "name", Record{"other": 1}},
		{"entity without natural key", "", Record{"name": "v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			u := &mockUpserter{}
			u.On("Add", ctx, tt.fields).Return(1, nil)

			_, err := resolveUpsert(ctx, u, tt.naturalKey, tt.fields)
			require.NoError(t, err)

			u.AssertExpectations(t)
			u.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
			u.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestResolveUpsert_SearchError(t *testing.T) {
	ctx := context.Background()
	searchErr := &PermissionError{StatusCode: http.StatusForbidden}

	u := &mockUpserter{}
	u.On("Search", ctx, "v").Return(nil, searchErr)

	_, err := resolveUpsert(ctx, u, "name", Record{"name": "v"})
	require.Error(t, err)

	var pe *PermissionError
	assert.True(t, errors.As(err, &pe))
	u.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestManager_CreateOrUpdate(t *testing.T) {
	ft := &fakeTransport{respond: func(req Request) (*Response, error) {
		if req.Method == http.MethodGet {
			return &Response{Body: listResponse("leads",
				map[string]any{"id": 5, "name": "v", "other": 2},
			), StatusCode: http.StatusOK}, nil
		}
		return &Response{Body: map[string]any{
			"response": map[string]any{
				"leads": map[string]any{"update": []any{map[string]any{"id": 5}}},
			},
		}, StatusCode: http.StatusOK}, nil
	}}
	m := NewManager(leads, ft)

	id, err := m.CreateOrUpdate(context.Background(), Record{"name": "v", "other": 1})
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	require.Len(t, ft.requests, 2)
	assert.Equal(t, Record{"query": "v", "limit_rows": 1}, ft.requests[0].Payload)

	sent := sentRecord(t, ft.requests[1], "leads", "update")
	assert.Equal(t, 2, sent["other"], "existing value wins over the new one")
	assert.Equal(t, 5, sent["id"])
	assert.Contains(t, sent, DefaultTimestampField)
}

func TestManager_CreateOrUpdate_EmptyKey(t *testing.T) {
	ft := &fakeTransport{}
	m := NewManager(leads, ft)

	_, err := m.CreateOrUpdate(context.Background(), Record{"name": "", "other": 1})
	require.NoError(t, err)

	require.Len(t, ft.requests, 1)
	assert.Equal(t, http.MethodPost, ft.requests[0].Method)
	assert.Equal(t, Record{"name": "", "other": 1}, sentRecord(t, ft.requests[0], "leads", "add"))
}

func TestManager_CreateOrUpdate_ErrorEnvelopeAdds(t *testing.T) {
	ft := &fakeTransport{respond: func(req Request) (*Response, error) {
		if req.Method == http.MethodGet {
			return &Response{Body: map[string]any{
				"response": map[string]any{"error": "Account blocked", "error_code": "110"},
			}, StatusCode: http.StatusBadRequest}, nil
		}
		return &Response{Body: map[string]any{
			"response": map[string]any{
				"leads": map[string]any{"add": []any{map[string]any{"id": 9}}},
			},
		}, StatusCode: http.StatusOK}, nil
	}}
	m := NewManager(leads, ft)

	id, err := m.CreateOrUpdate(context.Background(), Record{"name": "Deal"})
	require.NoError(t, err)
	assert.Equal(t, 9, id)

	require.Len(t, ft.requests, 2)
	sent := sentRecord(t, ft.requests[1], "leads", "add")
	assert.Equal(t, Record{"name": "Deal"}, sent)
}

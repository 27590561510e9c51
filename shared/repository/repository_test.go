package repository

import (
	"testing"

	"resort/infras/otel/mocks"
	"resort/shared/dto"

	"github.com/stretchr/testify/assert"
)

type stayRecord struct {
	ID         string `db:"id"`
	GuestName  string `db:"guest_name"`
	RoomNumber string `db:"room_number" column:"number" table:"rooms"`
}

func TestRepository_SortColumn(t *testing.T) {
	repo := NewRepository[stayRecord]("stay", "stays", "id", nil, mocks.NewOtel())

	tests := []struct {
		name     string
		field    string
		expected string
		allowed  bool
	}{
		{
			name:     "own column is qualified with the table",
			field:    "guest_name",
			expected: "stays.guest_name",
			allowed:  true,
		},
		{
			name:     "aliased joined column resolves to its source",
			field:    "room_number",
			expected: "rooms.number",
			allowed:  true,
		},
		{
			name:    "unknown column is rejected",
			field:   "secret_column",
			allowed: false,
		},
		{
			name:    "sql expression is rejected",
			field:   "id; DROP TABLE stays --",
			allowed: false,
		},
		{
			name:    "parenthesised expression is rejected",
			field:   "(SELECT password_hash FROM admins LIMIT 1)",
			allowed: false,
		},
		{
			name:    "empty field is rejected",
			field:   "",
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			column, ok := repo.sortColumn(tt.field)

			assert.Equal(t, tt.allowed, ok)
			assert.Equal(t, tt.expected, column)
		})
	}
}

func TestValidSortDir(t *testing.T) {
	assert.True(t, validSortDir(dto.SortDirAsc))
	assert.True(t, validSortDir(dto.SortDirDesc))
	assert.False(t, validSortDir(""))
	assert.False(t, validSortDir("asc"))
	assert.False(t, validSortDir("DESC; DROP TABLE stays"))
}

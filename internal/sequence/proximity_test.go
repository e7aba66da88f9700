package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterProximity(t *testing.T) {
	tests := []struct {
		name string
		hits []Hit
		p    int
		want []Hit
	}{
		{
			name: "empty",
			hits: nil,
			p:    3,
			want: nil,
		},
		{
			name: "single hit pairs with itself",
			hits: []Hit{{Term: "AB", Index: 7, Skip: 4}},
			p:    0,
			want: []Hit{{Term: "AB", Index: 7, Skip: 4}},
		},
		{
			name: "close indices keep both",
			hits: []Hit{
				{Term: "A", Index: 100, Skip: 60},
				{Term: "A", Index: 0, Skip: 2},
				{Term: "A", Index: 50, Skip: 30},
				{Term: "A", Index: 1, Skip: 10},
			},
			p: 1,
			want: []Hit{
				{Term: "A", Index: 0, Skip: 2},
				{Term: "A", Index: 1, Skip: 10},
			},
		},
		{
			name: "close skips keep both",
			hits: []Hit{
				{Term: "A", Index: 10, Skip: 20},
				{Term: "A", Index: 90, Skip: 21},
				{Term: "A", Index: 500, Skip: 400},
			},
			p: 1,
			want: []Hit{
				{Term: "A", Index: 10, Skip: 20},
				{Term: "A", Index: 90, Skip: 21},
			},
		},
		{
			name: "closeness is not transitive across a gap",
			hits: []Hit{
				{Term: "A", Index: 0, Skip: 5},
				{Term: "A", Index: 10, Skip: 40},
				{Term: "A", Index: 20, Skip: 7},
			},
			p: 3,
			want: []Hit{
				{Term: "A", Index: 0, Skip: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterProximity(tt.hits, tt.p)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), len(tt.hits))
		})
	}
}

func TestFilterProximity_DoesNotModifyInput(t *testing.T) {
	// Given: hits in a known order
	hits := []Hit{{Index: 5, Skip: 2}, {Index: 1, Skip: 2}}

	// When: filtering
	_ = FilterProximity(hits, 10)

	// Then: the caller's slice keeps its order
	assert.Equal(t, 5, hits[0].Index)
	assert.Equal(t, 1, hits[1].Index)
}

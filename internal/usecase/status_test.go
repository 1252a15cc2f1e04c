package usecase

import "testing"

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		children []Status
		want     Status
	}{
		{
			name:     "no children",
			children: nil,
			want:     StatusDraft,
		},
		{
			name:     "single draft",
			children: []Status{StatusDraft},
			want:     StatusPendingReview,
		},
		{
			name:     "all approved",
			children: []Status{StatusApproved, StatusApproved, StatusApproved},
			want:     StatusApproved,
		},
		{
			name:     "all rejected",
			children: []Status{StatusRejected, StatusRejected},
			want:     StatusRejected,
		},
		{
			name:     "approved and pending",
			children: []Status{StatusApproved, StatusPendingReview},
			want:     StatusPendingReview,
		},
		{
			name:     "approved and rejected with nothing pending",
			children: []Status{StatusApproved, StatusRejected},
			want:     StatusPendingReview,
		},
		{
			name:     "rejected and draft",
			children: []Status{StatusRejected, StatusDraft},
			want:     StatusPendingReview,
		},
		{
			name:     "single approved",
			children: []Status{StatusApproved},
			want:     StatusApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateStatus(tt.children); got != tt.want {
				t.Fatalf("AggregateStatus(%v) = %s, want %s", tt.children, got, tt.want)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusPendingReview, StatusApproved, StatusRejected} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("ARCHIVED").Valid() {
		t.Error("ARCHIVED should not be valid")
	}
	if Status("").Valid() {
		t.Error("empty status should not be valid")
	}
}

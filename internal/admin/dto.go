package admin

import "github.com/giftconnect/giftconnect-backend/internal/storage"

// ApproveGiftInput carries the raw approved value so a non-boolean can be
// rejected with a domain message instead of a decode error.
type ApproveGiftInput struct {
	Approved any `json:"approved"`
}

// ChangeRoleInput is the role update body.
type ChangeRoleInput struct {
	Role any `json:"role"`
}

// UpdateStatusInput is the gift request status body.
type UpdateStatusInput struct {
	Status any `json:"status"`
}

// StatsDTO is the dashboard counter payload.
type StatsDTO struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalGifts         int64 `json:"totalGifts"`
	TotalApprovedGifts int64 `json:"totalApprovedGifts"`
	TotalRequests      int64 `json:"totalRequests"`
}

func statsFromStorage(s storage.Stats) StatsDTO {
	return StatsDTO{
		TotalUsers:         s.TotalUsers,
		TotalGifts:         s.TotalGifts,
		TotalApprovedGifts: s.TotalApprovedGifts,
		TotalRequests:      s.TotalRequests,
	}
}

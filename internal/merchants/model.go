package merchants

import "time"

// Merchant is an installed shop and its platform credential.
type Merchant struct {
	ID          string
	Shop        string
	AccessToken string
	IsActive    bool
	InstalledAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package catalog

import "github.com/wanjiku/marketplace-catalog/models"

// CanMutate decides whether subject may mutate a resource owned by ownerID.
// The same rule applies to products (owner is the seller) and reviews (owner
// is the buyer): admins may mutate anything, everyone else only their own.
func CanMutate(subject models.Identity, ownerID uint) bool {
	return subject.Role == models.RoleAdmin || subject.ID == ownerID
}

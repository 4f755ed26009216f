package models

// Resource names a REST collection. The value doubles as the URL path
// segment, the cache namespace and the SSE event subject.
type Resource string

const (
	ResourceDevice             Resource = "device"
	ResourceSimcard            Resource = "simcard"
	ResourceEmail              Resource = "email"
	ResourceEwalletType        Resource = "ewallet-type"
	ResourceEwallet            Resource = "ewallet"
	ResourceEwalletTopup       Resource = "ewallet-topup"
	ResourcePlatform           Resource = "platform"
	ResourcePlatformProduct    Resource = "platform-product"
	ResourceProduct            Resource = "product"
	ResourceProductVariant     Resource = "product-variant"
	ResourceProductAccount     Resource = "product-account"
	ResourceProductAccountUser Resource = "product-account-user"
	ResourceTransaction        Resource = "transaction"
)

// Resources lists every collection in dependency order.
var Resources = []Resource{
	ResourceDevice,
	ResourceSimcard,
	ResourceEmail,
	ResourceEwalletType,
	ResourceEwallet,
	ResourceEwalletTopup,
	ResourcePlatform,
	ResourceProduct,
	ResourceProductVariant,
	ResourcePlatformProduct,
	ResourceProductAccount,
	ResourceProductAccountUser,
	ResourceTransaction,
}

// embeds lists, per resource, the resources whose payloads it embeds.
var embeds = map[Resource][]Resource{
	ResourceEmail:              {ResourceDevice},
	ResourceEwallet:            {ResourceSimcard, ResourceEwalletType, ResourceDevice},
	ResourceEwalletTopup:       {ResourceEwallet},
	ResourceProductVariant:     {ResourceProduct},
	ResourcePlatformProduct:    {ResourcePlatform, ResourceProductVariant},
	ResourceProductAccount:     {ResourceEmail, ResourceEwallet, ResourceProduct, ResourceProductVariant, ResourceProductAccountUser},
	ResourceProductAccountUser: {ResourceProductAccount, ResourceProductVariant},
	ResourceTransaction:        {ResourceProductVariant, ResourceProductAccount, ResourceProductAccountUser},
}

// Affected returns r plus every resource whose payload embeds r, directly
// or transitively. A change to r makes cached lists of all of them stale.
func Affected(r Resource) []Resource {
	seen := map[Resource]bool{r: true}
	out := []Resource{r}
	for changed := true; changed; {
		changed = false
		for _, candidate := range Resources {
			if seen[candidate] {
				continue
			}
			for _, dep := range embeds[candidate] {
				if seen[dep] {
					seen[candidate] = true
					out = append(out, candidate)
					changed = true
					break
				}
			}
		}
	}
	return out
}

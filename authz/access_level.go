// authz/access_level.go
package authz

import "strings"

// AccessLevel is the hierarchical part of a user's role set. Every user
// carries exactly one level; anything else in the roles array is a
// non-hierarchical tag (e.g. "procurement").
type AccessLevel int

const (
	LevelBasic AccessLevel = iota
	LevelIntermediate
	LevelAdvanced
	LevelAdmin
)

const (
	RoleBasic        = "basic"
	RoleIntermediate = "intermediate"
	RoleAdvanced     = "advanced"
	RoleAdmin        = "admin"

	// TagProcurement marks approvers. It is orthogonal to the level ladder.
	TagProcurement = "procurement"
)

func (l AccessLevel) String() string {
	switch l {
	case LevelAdmin:
		return RoleAdmin
	case LevelAdvanced:
		return RoleAdvanced
	case LevelIntermediate:
		return RoleIntermediate
	default:
		return RoleBasic
	}
}

// LevelFromRoles picks the highest access level present in a roles array.
// Unknown strings are ignored; an empty or tag-only array maps to basic,
// which grants nothing beyond viewing.
func LevelFromRoles(roles []string) AccessLevel {
	level := LevelBasic
	for _, r := range roles {
		switch strings.ToLower(strings.TrimSpace(r)) {
		case RoleAdmin:
			if level < LevelAdmin {
				level = LevelAdmin
			}
		case RoleAdvanced:
			if level < LevelAdvanced {
				level = LevelAdvanced
			}
		case RoleIntermediate:
			if level < LevelIntermediate {
				level = LevelIntermediate
			}
		}
	}
	return level
}

// HasRole reports whether the roles array contains the given role or tag.
func HasRole(roles []string, want string) bool {
	for _, r := range roles {
		if strings.EqualFold(strings.TrimSpace(r), want) {
			return true
		}
	}
	return false
}

// Capabilities is the bundle granted by an access level.
type Capabilities struct {
	CanViewRFQs      bool `json:"canViewRFQs"`
	CanCreateRFQs    bool `json:"canCreateRFQs"`
	CanEditRFQs      bool `json:"canEditRFQs"`
	CanDeleteRFQs    bool `json:"canDeleteRFQs"`
	CanViewQuotes    bool `json:"canViewQuotes"`
	CanCreateQuotes  bool `json:"canCreateQuotes"`
	CanApproveQuotes bool `json:"canApproveQuotes"`
	CanViewReports   bool `json:"canViewReports"`
	CanExportData    bool `json:"canExportData"`
	CanManageUsers   bool `json:"canManageUsers"`
}

// capabilityTable is the single source of truth for what each tier grants.
// Each tier is a strict superset of the one below it; admin grants all.
var capabilityTable = map[AccessLevel]Capabilities{
	LevelBasic: {
		CanViewRFQs:     true,
		CanViewQuotes:   true,
		CanCreateQuotes: true,
	},
	LevelIntermediate: {
		CanViewRFQs:     true,
		CanCreateRFQs:   true,
		CanEditRFQs:     true,
		CanViewQuotes:   true,
		CanCreateQuotes: true,
		CanViewReports:  true,
	},
	LevelAdvanced: {
		CanViewRFQs:      true,
		CanCreateRFQs:    true,
		CanEditRFQs:      true,
		CanDeleteRFQs:    true,
		CanViewQuotes:    true,
		CanCreateQuotes:  true,
		CanApproveQuotes: true,
		CanViewReports:   true,
		CanExportData:    true,
	},
	LevelAdmin: {
		CanViewRFQs:      true,
		CanCreateRFQs:    true,
		CanEditRFQs:      true,
		CanDeleteRFQs:    true,
		CanViewQuotes:    true,
		CanCreateQuotes:  true,
		CanApproveQuotes: true,
		CanViewReports:   true,
		CanExportData:    true,
		CanManageUsers:   true,
	},
}

// CapabilitiesFor returns the capability bundle for an access level.
func CapabilitiesFor(level AccessLevel) Capabilities {
	caps, ok := capabilityTable[level]
	if !ok {
		return capabilityTable[LevelBasic]
	}
	return caps
}

// CapabilitiesForRoles is the common entry point for handlers holding a raw
// roles array out of the JWT claims.
func CapabilitiesForRoles(roles []string) Capabilities {
	return CapabilitiesFor(LevelFromRoles(roles))
}

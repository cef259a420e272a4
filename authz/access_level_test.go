package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromRoles(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  AccessLevel
	}{
		{"empty defaults to basic", nil, LevelBasic},
		{"tag only defaults to basic", []string{TagProcurement}, LevelBasic},
		{"single level", []string{"intermediate"}, LevelIntermediate},
		{"level plus tag", []string{"advanced", "procurement"}, LevelAdvanced},
		{"highest wins", []string{"basic", "admin"}, LevelAdmin},
		{"case and whitespace tolerant", []string{" Admin "}, LevelAdmin},
		{"unknown strings ignored", []string{"superuser", "intermediate"}, LevelIntermediate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFromRoles(tt.roles))
		})
	}
}

func TestCapabilityTiersAreSupersets(t *testing.T) {
	ladder := []AccessLevel{LevelBasic, LevelIntermediate, LevelAdvanced, LevelAdmin}

	grants := func(c Capabilities) []bool {
		return []bool{
			c.CanViewRFQs, c.CanCreateRFQs, c.CanEditRFQs, c.CanDeleteRFQs,
			c.CanViewQuotes, c.CanCreateQuotes, c.CanApproveQuotes,
			c.CanViewReports, c.CanExportData, c.CanManageUsers,
		}
	}

	for i := 1; i < len(ladder); i++ {
		lower := grants(CapabilitiesFor(ladder[i-1]))
		higher := grants(CapabilitiesFor(ladder[i]))
		require.Len(t, higher, len(lower))
		for j := range lower {
			if lower[j] {
				assert.True(t, higher[j],
					"%s must grant everything %s grants (capability %d)", ladder[i], ladder[i-1], j)
			}
		}
	}
}

func TestAdminGrantsEverything(t *testing.T) {
	caps := CapabilitiesFor(LevelAdmin)
	assert.True(t, caps.CanViewRFQs)
	assert.True(t, caps.CanCreateRFQs)
	assert.True(t, caps.CanEditRFQs)
	assert.True(t, caps.CanDeleteRFQs)
	assert.True(t, caps.CanViewQuotes)
	assert.True(t, caps.CanCreateQuotes)
	assert.True(t, caps.CanApproveQuotes)
	assert.True(t, caps.CanViewReports)
	assert.True(t, caps.CanExportData)
	assert.True(t, caps.CanManageUsers)
}

func TestBasicGrantsNoMutationsBeyondQuotes(t *testing.T) {
	caps := CapabilitiesFor(LevelBasic)
	assert.True(t, caps.CanViewRFQs)
	assert.True(t, caps.CanViewQuotes)
	assert.True(t, caps.CanCreateQuotes)
	assert.False(t, caps.CanCreateRFQs)
	assert.False(t, caps.CanDeleteRFQs)
	assert.False(t, caps.CanApproveQuotes)
	assert.False(t, caps.CanManageUsers)
}

func TestHasRole(t *testing.T) {
	roles := []string{"intermediate", "Procurement"}
	assert.True(t, HasRole(roles, TagProcurement))
	assert.True(t, HasRole(roles, "intermediate"))
	assert.False(t, HasRole(roles, RoleAdmin))
}

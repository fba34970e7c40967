package losautomation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-RestrictionService/internal/domain"
	"github.com/m04kA/SMC-RestrictionService/pkg/ptr"
)

func TestGapFill(t *testing.T) {
	tests := []struct {
		name        string
		settings    domain.AutomationSettings
		computedMax int
		manualMin   *int
		want        Decision
	}{
		{
			name:        "filling caps default minimum",
			settings:    domain.AutomationSettings{DefaultMinLength: ptr.Ptr(3), GapFillMode: domain.GapFillFilling},
			computedMax: 2,
			want:        Decision{MinLength: 2, MinSource: domain.SourceAutomated, MaxLength: 2, MaxSource: domain.SourceAutomated},
		},
		{
			name:        "filling keeps default minimum when it fits",
			settings:    domain.AutomationSettings{DefaultMinLength: ptr.Ptr(3), GapFillMode: domain.GapFillFilling},
			computedMax: 5,
			want:        Decision{MinLength: 3, MinSource: domain.SourceDefault, MaxLength: 5, MaxSource: domain.SourceAutomated},
		},
		{
			name:        "maximum never reduces default minimum",
			settings:    domain.AutomationSettings{DefaultMinLength: ptr.Ptr(3), GapFillMode: domain.GapFillMaximum},
			computedMax: 2,
			want:        Decision{MinLength: 3, MinSource: domain.SourceDefault, MaxLength: 2, MaxSource: domain.SourceAutomated},
		},
		{
			name:        "manual minimum wins in filling mode",
			settings:    domain.AutomationSettings{DefaultMinLength: ptr.Ptr(1), GapFillMode: domain.GapFillFilling},
			computedMax: 2,
			manualMin:   ptr.Ptr(4),
			want:        Decision{MinLength: 4, MinSource: domain.SourceManual, MaxLength: 2, MaxSource: domain.SourceAutomated},
		},
		{
			name:        "default maximum limits computed maximum",
			settings:    domain.AutomationSettings{DefaultMaxLength: ptr.Ptr(7)},
			computedMax: 30,
			want:        Decision{MinLength: domain.DefaultMinLength, MinSource: domain.SourceDefault, MaxLength: 7, MaxSource: domain.SourceDefault},
		},
		{
			name:        "unset mode behaves as filling",
			settings:    domain.AutomationSettings{DefaultMinLength: ptr.Ptr(4)},
			computedMax: 1,
			want:        Decision{MinLength: 1, MinSource: domain.SourceAutomated, MaxLength: 1, MaxSource: domain.SourceAutomated},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GapFill(tt.settings, tt.computedMax, tt.manualMin))
		})
	}
}

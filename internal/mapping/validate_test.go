package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(mf *MappingFile)
		wantErr []string
	}{
		{
			name:   "valid",
			modify: func(*MappingFile) {},
		},
		{
			name:    "unsupported version",
			modify:  func(mf *MappingFile) { mf.Version = "2" },
			wantErr: []string{`unsupported mapping file version: "2"`},
		},
		{
			name: "duplicate name",
			modify: func(mf *MappingFile) {
				mf.Mappers = append(mf.Mappers, mf.Mappers[0])
			},
			wantErr: []string{`name "ProductDtoMapper" already used by mappers[0]`},
		},
		{
			name:    "missing source",
			modify:  func(mf *MappingFile) { mf.Mappers[0].Source = "" },
			wantErr: []string{"source is required"},
		},
		{
			name:    "unknown destination",
			modify:  func(mf *MappingFile) { mf.Mappers[0].Destination = "dtos.Nope" },
			wantErr: []string{`destination type "dtos.Nope"`},
		},
		{
			name:    "unknown entry point",
			modify:  func(mf *MappingFile) { mf.Mappers[0].Policies[1].For = "ForDeletion" },
			wantErr: []string{`policies[1]: unknown entry point "ForDeletion"`},
		},
		{
			name: "every problem is reported",
			modify: func(mf *MappingFile) {
				mf.Version = "0"
				mf.Mappers[0].Name = ""
				mf.Mappers[0].Source = "domain.Nope"
			},
			wantErr: []string{"unsupported mapping file version", "name is required", `source type "domain.Nope"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mf, graph := loadInline(t)
			tt.modify(mf)

			err := Validate(mf, graph)
			if len(tt.wantErr) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)

			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

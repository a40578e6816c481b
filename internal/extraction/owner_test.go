package extraction

import (
	"reflect"
	"testing"
)

func TestOwnerExtractor_Extract(t *testing.T) {
	extractor := NewOwnerExtractor()

	tests := []struct {
		name string
		text string
		want []BeneficialOwner
	}{
		{
			name: "name followed directly by percentage",
			text: "Berkshire Hathaway 5.45%\n",
			want: []BeneficialOwner{
				{Name: "Berkshire Hathaway", Ownership: 5.45, Type: "owner"},
			},
		},
		{
			name: "dash separated percentage",
			text: "Vanguard Group – 7.32%\n",
			want: []BeneficialOwner{
				{Name: "Vanguard Group", Ownership: 7.32, Type: "owner"},
			},
		},
		{
			name: "percent spelled out",
			text: "State Street Corporation 4.2 percent\n",
			want: []BeneficialOwner{
				{Name: "State Street Corporation", Ownership: 4.2, Type: "owner"},
			},
		},
		{
			name: "trailing punctuation stripped from name",
			text: "BlackRock, Inc. 6.12%\n",
			want: []BeneficialOwner{
				{Name: "BlackRock, Inc", Ownership: 6.12, Type: "owner"},
			},
		},
		{
			name: "ownership of exactly 0.1 excluded",
			text: "Alpha Partners Fund 0.1%\n",
			want: []BeneficialOwner{},
		},
		{
			name: "ownership of exactly 100 excluded",
			text: "Omega Holdings Trust 100%\n",
			want: []BeneficialOwner{},
		},
		{
			name: "ownership of 50.0 included",
			text: "Founders Holding Company 50.0%\n",
			want: []BeneficialOwner{
				{Name: "Founders Holding Company", Ownership: 50.0, Type: "owner"},
			},
		},
		{
			name: "short name rejected",
			text: "Abc 5.2%\n",
			want: []BeneficialOwner{},
		},
		{
			name: "case-variant duplicate keeps first form and value",
			text: "Acme Capital 10.5%\nACME CAPITAL 12%\n",
			want: []BeneficialOwner{
				{Name: "Acme Capital", Ownership: 10.5, Type: "owner"},
			},
		},
		{
			name: "no matches yields empty, not nil",
			text: "no ownership table in this text",
			want: []BeneficialOwner{},
		},
		{
			name: "empty input",
			text: "",
			want: []BeneficialOwner{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.ExtractOwners(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractOwners() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOwnerExtractor_Idempotent(t *testing.T) {
	extractor := NewOwnerExtractor()
	text := "Berkshire Hathaway 5.45%\nVanguard Group – 7.32%\nBlackRock, Inc. 6.12%\n"

	first := extractor.ExtractOwners(text)
	second := extractor.ExtractOwners(text)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs: %+v vs %+v", first, second)
	}
}

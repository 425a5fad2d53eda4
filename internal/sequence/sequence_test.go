package sequence

import (
	"reflect"
	"testing"
)

func TestKeyNormalizesTileSuffix(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"T_Base_Color.1001.exr", "T_Base_Color.<UDIM>.exr"},
		{"/exports/T_Base_Color.1002.exr", "T_Base_Color.<UDIM>.exr"},
		{"T_Roughness.exr", "T_Roughness.exr"},
		{"v2_take3.1011.png", "v2_take3.<UDIM>.png"},
		// Digits not directly before the extension are untouched.
		{"Shot010_Color.exr", "Shot010_Color.exr"},
	}
	for _, tc := range cases {
		if got := Key(tc.path); got != tc.want {
			t.Errorf("Key(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestGroupCollapsesTiles(t *testing.T) {
	paths := []string{
		"T_Base_Color.1001.exr",
		"T_Base_Color.1002.exr",
		"T_Roughness.exr",
	}
	got := Group(paths)
	want := [][]string{
		{"T_Base_Color.1001.exr", "T_Base_Color.1002.exr"},
		{"T_Roughness.exr"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Group = %#v, want %#v", got, want)
	}
}

func TestGroupKeepsFirstSeenOrder(t *testing.T) {
	paths := []string{
		"B_Normal.1001.png",
		"A_Color.1001.png",
		"B_Normal.1002.png",
		"A_Color.1002.png",
	}
	got := Group(paths)
	want := [][]string{
		{"B_Normal.1001.png", "B_Normal.1002.png"},
		{"A_Color.1001.png", "A_Color.1002.png"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Group = %#v, want %#v", got, want)
	}
}

func TestGroupEmptyInput(t *testing.T) {
	if got := Group(nil); len(got) != 0 {
		t.Fatalf("Group(nil) = %#v, want empty", got)
	}
}

func TestParseFields(t *testing.T) {
	cases := []struct {
		name string
		want Fields
	}{
		{
			name: "Body_BaseColor_sRGB.1001.png",
			want: Fields{TextureSet: "Body", TextureMap: "BaseColor", Colorspace: "sRGB", Extension: "png", UDIM: 1001, HasUDIM: true},
		},
		{
			name: "Body_Roughness_Raw.png",
			want: Fields{TextureSet: "Body", TextureMap: "Roughness", Colorspace: "Raw", Extension: "png"},
		},
		{
			// Underscored set names keep everything up to the last two fields.
			name: "Robot_Head_Normal_Raw.1011.exr",
			want: Fields{TextureSet: "Robot_Head", TextureMap: "Normal", Colorspace: "Raw", Extension: "exr", UDIM: 1011, HasUDIM: true},
		},
	}
	for _, tc := range cases {
		got, err := ParseFields(tc.name)
		if err != nil {
			t.Errorf("ParseFields(%q) failed: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFields(%q) = %#v, want %#v", tc.name, got, tc.want)
		}
	}
}

func TestParseFieldsRejectsOffConvention(t *testing.T) {
	for _, name := range []string{"thumbnail.png", "Body.png", ""} {
		if _, err := ParseFields(name); err == nil {
			t.Errorf("ParseFields(%q) succeeded, want error", name)
		}
	}
}

func TestValidateExportPattern(t *testing.T) {
	if err := ValidateExportPattern("$textureSet_BaseColor_$colorSpace(.$udim)"); err != nil {
		t.Fatalf("valid pattern rejected: %v", err)
	}
	invalid := []string{
		"$textureSet_Base_Color_$colorSpace(.$udim)",
		"$textureSet_BaseColor_$colorSpace",
		"BaseColor_$colorSpace(.$udim)",
	}
	for _, pattern := range invalid {
		if err := ValidateExportPattern(pattern); err == nil {
			t.Errorf("ValidateExportPattern(%q) succeeded, want error", pattern)
		}
	}
}

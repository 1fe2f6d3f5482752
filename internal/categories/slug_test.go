package categories

import "testing"

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Real Estate":              "real-estate",
		"Houses for Rent":          "houses-for-rent",
		"Véhicules":                "vehicules",
		"Maisons à Louer":          "maisons-a-louer",
		"Services Qualifiés":       "services-qualifies",
		"  Trucks & Vans  ":        "trucks-vans",
		"IT Technicians":           "it-technicians",
		"Électriciens":             "electriciens",
		"déjà--slugged":            "deja-slugged",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

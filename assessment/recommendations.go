package assessment

// Telemedicine is an online consultation service offered for high-risk results.
type Telemedicine struct {
	Name string
	URL  string
}

// Advice is the guidance shown under a prediction result.
type Advice struct {
	Items []string
	// Notice and Telemedicine are only set for high-risk results.
	Notice       string
	Telemedicine []Telemedicine
}

var (
	highRiskAdvice = []string{
		"Segera konsultasi dengan dokter spesialis syaraf (Neurolog).",
		"Kurangi konsumsi garam dan makanan berlemak tinggi.",
		"Pantau tekanan darah secara rutin setiap pagi dan sore.",
		"Hubungi layanan darurat jika merasakan lemas tiba-tiba pada satu sisi tubuh.",
	}
	lowRiskAdvice = []string{
		"Pertahankan pola makan gizi seimbang dan rendah gula.",
		"Lakukan aktivitas fisik ringan minimal 30 menit sehari.",
		"Lakukan pemeriksaan kesehatan (Medical Check-up) rutin setahun sekali.",
	}
	puskesmasNotice = "Segera kunjungi Puskesmas atau fasilitas kesehatan terdekat untuk pemeriksaan lebih lanjut."

	telemedicine = []Telemedicine{
		{Name: "Halodoc", URL: "https://www.halodoc.com/tanya-dokter"},
		{Name: "Alodokter", URL: "https://www.alodokter.com/cari-dokter"},
	}
)

// Recommend returns the advice for a result.
func Recommend(highRisk bool) Advice {
	if !highRisk {
		return Advice{Items: append([]string(nil), lowRiskAdvice...)}
	}
	return Advice{
		Items:        append([]string(nil), highRiskAdvice...),
		Notice:       puskesmasNotice,
		Telemedicine: append([]Telemedicine(nil), telemedicine...),
	}
}

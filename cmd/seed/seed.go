package main

import (
	"context"
	"log"
	"time"

	"phishing-paper-platform/internal/config"
	"phishing-paper-platform/internal/logger"
	"phishing-paper-platform/internal/store"
	"phishing-paper-platform/models"
)

// Seeds the contents collection with the paper chapters. Safe to run
// repeatedly: chapters are upserted by slug.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	contents := store.NewContentStore(mongoClient.Database(cfg.DBName))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	for i, chapter := range paperChapters {
		chapter.OrderIndex = i
		chapter.CreatedAt = now
		chapter.UpdatedAt = now
		if err := contents.Upsert(ctx, chapter); err != nil {
			logger.Error("Failed to seed chapter", "title", chapter.Title, "error", err)
			continue
		}
		logger.Info("Seeded chapter", "title", chapter.Title, "slug", chapter.Slug)
	}

	logger.Info("Database seeding completed", "chapters", len(paperChapters))
}

var paperChapters = []models.Content{
	{
		Title:  "Abstrak",
		Slug:   "abstrak",
		Source: "database",
		Body: `Phishing merupakan salah satu bentuk serangan rekayasa sosial yang bertujuan mencuri informasi sensitif seperti kredensial login, data pribadi, serta informasi rahasia organisasi. Serangan ini menjadi salah satu penyebab utama terjadinya akses tidak sah (unauthorized access) pada sistem komputer.

Makalah ini menganalisis korelasi antara phishing dan meningkatnya insiden penyusupan ke sistem, dengan meninjau faktor teknis, manusia, dan organisasi yang berkontribusi terhadap keberhasilan serangan. Selain itu, makalah ini juga mengkaji teori cybercrime, kerangka hukum seperti UU ITE dan UU PDP, serta strategi mitigasi seperti Zero Trust Architecture dan pelatihan cybersecurity awareness.

Hasil analisis menunjukkan bahwa unauthorized access terjadi akibat kegagalan sistemik yang melibatkan kelemahan autentikasi, manipulasi psikologis, serta kurangnya budaya keamanan dalam organisasi. Rekomendasi yang diberikan mencakup peningkatan keamanan teknis, penguatan SOP, serta pembangunan budaya sadar keamanan untuk meminimalkan risiko insiden serupa.`,
	},
	{
		Title:  "BAB I - Pendahuluan",
		Slug:   "pendahuluan",
		Source: "database",
		Body: `## PENDAHULUAN

### Latar Belakang

Dalam era digital yang semakin terhubung, keamanan informasi menjadi aspek kritis bagi organisasi dan individu. Phishing, sebagai teknik rekayasa sosial yang terus berkembang, memanfaatkan kerentanan manusia sebagai titik lemah dalam rantai keamanan.

Phishing tetap menjadi vektor serangan paling dominan untuk mendapatkan akses tidak sah ke sistem. Melalui manipulasi psikologis, pelaku memancing korban menyerahkan kredensial—kunci gerbang masuk ke sistem komputer.

### Rumusan Masalah

1. Bagaimana teknik phishing mencuri kredensial?
2. Bagaimana kredensial hasil phishing digunakan untuk akses ilegal?
3. Mengapa phishing tetap efektif?
4. Strategi mitigasi apa yang paling efektif?

### Tujuan Penelitian

Penelitian ini bertujuan untuk menganalisis hubungan antara serangan phishing dengan insiden unauthorized access, mengidentifikasi faktor-faktor yang memperkuat korelasi tersebut, serta mengusulkan strategi mitigasi yang efektif.`,
	},
	{
		Title:  "BAB II - Landasan Teori",
		Slug:   "landasan-teori",
		Source: "database",
		Body:   "# Landasan Teori\n\n(Teori tentang Phishing...)",
	},
	{
		Title:  "BAB III - Pembahasan",
		Slug:   "pembahasan",
		Source: "database",
		Body: `### Analisis Korelasi Phishing dan Unauthorized Access

Phishing merupakan teknik rekayasa sosial yang memanfaatkan manipulasi psikologis untuk mencuri kredensial autentikasi. Kredensial yang berhasil dicuri kemudian digunakan untuk melakukan akses tidak sah (unauthorized access) ke sistem target.

### Faktor Penyebab Keberhasilan Serangan

**Faktor Teknis:**
- Autentikasi berbasis password yang lemah
- Multi-Factor Authentication (MFA) yang rentan terhadap phishing
- Kurangnya implementasi teknologi anti-phishing

**Faktor Manusia:**
- Kurangnya kesadaran keamanan siber
- Respons emosional terhadap urgensi dan otoritas
- Keterbatasan literasi digital

**Faktor Organisasi:**
- Standar Operasional Prosedur (SOP) yang lemah
- Budaya blame culture yang menghambat pelaporan
- Kurangnya investasi dalam pelatihan keamanan

### Strategi Penanggulangan

1. **Teknologi**: Implementasi FIDO2/WebAuthn, Zero Trust Architecture
2. **Manusia**: Pelatihan berbasis simulasi dan gamifikasi
3. **Organisasi**: Penguatan SOP, budaya pelaporan tanpa rasa takut
4. **Hukum**: Kepatuhan terhadap UU ITE dan UU PDP`,
	},
	{
		Title:  "BAB IV - Penutup",
		Slug:   "penutup",
		Source: "database",
		Body:   "# BAB IV Penutup\n\n(Kesimpulan...)",
	},
	{
		Title:  "Daftar Pustaka",
		Slug:   "daftar-pustaka",
		Source: "database",
		Body:   "# Daftar Pustaka\n\n1. Referensi A...",
	},
	{
		Title:  "Identitas Tim",
		Slug:   "tim",
		Source: "database",
		Body:   "# Tim Pengembang\n\n- Nama 1\n- Nama 2",
	},
}

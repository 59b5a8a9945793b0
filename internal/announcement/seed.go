package announcement

import "time"

func day(d int) time.Time {
	return time.Date(2024, time.July, d, 8, 0, 0, 0, time.FixedZone("WIB", 7*60*60))
}

// Demo returns the announcements the portal ships with.
func Demo() []Announcement {
	return []Announcement{
		{
			ID: "a1", Title: "Jadwal Pengisian KRS Semester Ganjil 2024/2025", Category: "Jadwal Akademik",
			Author: "Bagian Akademik", PublishedAt: day(20),
			Content: "Pengisian Kartu Rencana Studi (KRS) untuk semester ganjil akan dimulai pada tanggal 1 Agustus 2024 hingga 15 Agustus 2024. Pastikan untuk berkonsultasi dengan Dosen Pembimbing Akademik Anda.",
		},
		{
			ID: "a2", Title: "Pembukaan Pendaftaran Beasiswa Bank Indonesia 2024", Category: "Beasiswa",
			Author: "Bagian Kemahasiswaan", PublishedAt: day(18),
			Content: "Telah dibuka pendaftaran Beasiswa Bank Indonesia bagi mahasiswa S1 semester 3-7. Batas akhir pendaftaran pada tanggal 30 Juli 2024. Syarat dan ketentuan dapat dilihat di website kemahasiswaan.",
		},
		{
			ID: "a3", Title: `Seminar Karir: "Membangun Personal Branding di Era Digital"`, Category: "Karir & Alumni",
			Author: "Pusat Karir UNSRI", PublishedAt: day(15),
			Content: "Ikuti seminar karir yang akan diadakan pada hari Sabtu, 27 Juli 2024 di Aula Fakultas Ekonomi. Pendaftaran gratis dan tempat terbatas!",
		},
	}
}

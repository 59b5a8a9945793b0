package chat

import (
	"time"

	"campus-chat/internal/user"
)

func msg(id, sender, text, ts string, read bool) Message {
	return Message{ID: id, SenderID: sender, Text: text, Timestamp: ts, Read: read}
}

// DemoChats returns the conversations the portal ships with. Participant ids
// refer to user.DemoUsers.
func DemoChats() []Chat {
	return DemoChatsAt(time.Now())
}

// DemoChatsAt dates the demo conversations on the day before now, at the
// clock time each message displays. Messages shown as "Kemarin" go one day
// further back, a minute apart.
func DemoChatsAt(now time.Time) []Chat {
	chats := demoChats()
	day := now.AddDate(0, 0, -1)
	earlier := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
	for i := range chats {
		for j := range chats[i].Messages {
			m := &chats[i].Messages[j]
			clock, err := time.Parse(TimestampLayout, m.Timestamp)
			if err != nil {
				m.SentAt = earlier.Add(time.Duration(j) * time.Minute)
				continue
			}
			m.SentAt = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
		}
	}
	return chats
}

func demoChats() []Chat {
	return []Chat{
		{
			ID: "chat1", Type: TypePrivate, ParticipantIDs: []string{"s1", "l1"}, Topic: user.CategoryAcademic,
			Messages: []Message{
				msg("m1", "s1", "Selamat pagi, Bu. Saya ingin bertanya mengenai jadwal KRS semester depan.", "10:00 AM", true),
				msg("m2", "l1", "Selamat pagi, Budi. Tentu, jadwal KRS akan diumumkan minggu depan di portal akademik. Ada lagi yang bisa dibantu?", "10:01 AM", true),
				msg("m3", "s1", "Baik, Bu. Terima kasih banyak atas informasinya.", "10:02 AM", false),
			},
		},
		{
			ID: "chat2", Type: TypePrivate, ParticipantIDs: []string{"s1", "st2"}, Topic: user.CategoryScholarship,
			Messages: []Message{
				msg("m4", "s1", "Permisi, Pak/Bu. Saya ingin menanyakan informasi mengenai beasiswa PPA.", "11:30 AM", true),
				msg("m5", "st2", "Halo. Pendaftaran Beasiswa PPA akan dibuka tanggal 1-15 bulan depan. Silakan siapkan berkas-berkasnya ya. Info lengkap ada di menu pengumuman.", "11:32 AM", true),
			},
		},
		{
			ID: "chat3", Type: TypePrivate, ParticipantIDs: []string{"s2", "l4"}, Topic: user.CategoryCareer,
			Messages: []Message{
				msg("m6", "s2", "Selamat siang, Bu Yulia. Saya Citra, ingin bertanya tentang peluang magang di perusahaan teknologi.", "12:05 PM", true),
				msg("m7", "l4", "Siang, Citra. Tentu, ada beberapa info baru dari pusat karir. Kamu tertarik di bidang apa spesifiknya? Software engineering, data science?", "12:07 PM", true),
				msg("m8", "s2", "Saya lebih tertarik ke software engineering, Bu.", "12:08 PM", true),
				msg("m9", "l4", "Baik. Coba siapkan CV terbaikmu. Minggu depan ada webinar dari perusahaan X, sangat relevan. Nanti saya teruskan infonya di grup info karir ya.", "12:09 PM", true),
				msg("m9a", "s2", "Wah, baik Bu! Terima kasih banyak atas bimbingannya. Saya akan siapkan CV saya.", "12:10 PM", true),
				msg("m9b", "l4", "Sama-sama, Citra. Sukses ya!", "12:11 PM", false),
			},
		},
		{
			ID: "chat4", Type: TypePrivate, ParticipantIDs: []string{"s3", "st1"}, Topic: user.CategoryAcademic,
			Messages: []Message{
				msg("m10", "s3", "Pagi, Pak Ahmad. Saya Doni, mau konfirmasi apakah transkrip nilai sementara saya sudah bisa diambil?", "09:15 AM", true),
				msg("m11", "st1", "Pagi, Doni. Coba saya cek dulu ya. Atas nama Doni Firmansyah, NIM 09031282126003. Mohon ditunggu.", "09:16 AM", true),
				msg("m12", "st1", "Sudah ada, Don. Bisa diambil di loket akademik jam kerja ya.", "09:18 AM", true),
				msg("m13", "s3", "Siap, Pak. Terima kasih infonya.", "09:19 AM", true),
				msg("m13a", "st1", "Sama-sama. Jangan lupa bawa KTM ya.", "09:20 AM", false),
			},
		},
		{
			ID: "chat5", Type: TypePrivate, ParticipantIDs: []string{"s7", "l2"}, Topic: user.CategoryGeneral,
			Messages: []Message{
				msg("m14", "s7", "Selamat sore, Prof. Anis. Saya Dina Amelia, ingin bertanya mengenai kegiatan riset di fakultas teknik.", "03:10 PM", true),
				msg("m15", "l2", "Sore, Dina. Tentu, silakan. Riset apa yang kamu minati?", "03:11 PM", false),
			},
		},
		{
			ID: "group1", Type: TypeGroup, Name: "Diskusi Tugas Akhir TI '21", ParticipantIDs: []string{"s1", "s2", "s3"}, CreatorID: "s1",
			Messages: []Message{
				msg("gm1", "s2", "Guys, ada referensi buat bab 2 ga? Aku agak buntu nih.", "08:30 PM", true),
				msg("gm2", "s3", "Coba cek di perpus online unsri, Cit. Kemarin aku nemu beberapa jurnal bagus di sana.", "08:31 PM", true),
				msg("gm3", "s1", "Betul, di IEEE Xplore juga banyak. Nanti aku share link-nya ya kalau ketemu.", "08:32 PM", true),
				msg("gm3a", "s3", "Linknya udah aku kirim di grup ya, Bud. Cekidot.", "08:35 PM", true),
				msg("gm4", "s2", "Wah, makasih banyak yaa!! Sangat membantu.", "08:33 PM", true),
				msg("gm4a", "s1", "Mantap, Don. Makasih!", "08:36 PM", true),
				msg("gm4b", "s2", "Oke, aku cek sekarang juga. Thanks guys!", "08:37 PM", false),
			},
		},
		{
			ID: "group2", Type: TypeGroup, Name: "Kelompok KKN Desa Suka Maju", ParticipantIDs: []string{"s1", "s4", "s5"}, CreatorID: "s4",
			Messages: []Message{
				msg("gm5", "s4", "Jangan lupa besok kita kumpul jam 9 di rektorat ya buat pelepasan KKN.", "Kemarin", true),
				msg("gm6", "s1", "Siap, Eka. Bawa apa aja ya kira-kira?", "Kemarin", true),
				msg("gm7", "s5", "Bawa jaket almamater sama perlengkapan pribadi aja, Bud.", "Kemarin", true),
				msg("gm7a", "s4", "Oke, jangan ada yang telat ya teman-teman. Biar gak ketinggalan bus.", "Kemarin", true),
				msg("gm7b", "s1", "Noted!", "Kemarin", false),
			},
		},
		{
			ID: "group3", Type: TypeGroup, Name: "Panitia Acara Fasilkom", ParticipantIDs: []string{"s1", "s2", "s3", "s6", "s7"}, CreatorID: "s6",
			Messages: []Message{
				msg("gm8", "s6", "Rapat panitia nanti sore jadi kan?", "09:15 AM", true),
				msg("gm9", "s2", "Jadi dong, Gilang. Di ruang rapat BEM kan?", "09:16 AM", true),
				msg("gm10", "s6", "Betul, Cit. Jangan lupa bawa progress dari divisi masing-masing ya.", "09:17 AM", true),
				msg("gm10a", "s7", "Siap, aku juga ikut ya. Divisi acara sudah siap presentasi.", "09:18 AM", true),
				msg("gm10b", "s3", "Oke, divisi perlengkapan juga udah siap lapor.", "09:19 AM", false),
			},
		},
		{
			ID: "group4", Type: TypeGroup, Name: "UKM Fotografi UNSRI", ParticipantIDs: []string{"s1", "s2", "s5", "s6"}, CreatorID: "s5",
			Messages: []Message{
				msg("gm11", "s5", "Teman-teman, hunting foto bareng hari Minggu jadi?", "10:45 AM", true),
				msg("gm12", "s6", "Jadi dong, Fit. Lokasi di Kambang Iwak aja gimana? Pagi-pagi biar cahayanya bagus.", "10:46 AM", true),
				msg("gm13", "s1", "Setuju. Jam 7 pagi kumpul di depan McDonald's.", "10:48 AM", true),
				msg("gm14", "s2", "Aku ikut!", "11:00 AM", true),
				msg("gm15", "s6", "Sipp. Yang punya lensa tele boleh dibawa ya, buat candid.", "11:02 AM", false),
			},
		},
	}
}

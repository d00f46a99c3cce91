package locale

import "github.com/Nixie-Tech-LLC/minbar/internal/model"

var English = Locale{
	Code:     "en",
	Weekdays: [7]string{"Saturday", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
	Prayers: map[model.PrayerSlot]string{
		model.Fajr:    "Fajr",
		model.Dhuhr:   "Dhuhr",
		model.Asr:     "Asr",
		model.Maghrib: "Maghrib",
		model.Isha:    "Isha",
	},
	HijriMonths: [12]string{
		"Muharram", "Safar", "Rabi al-Awwal", "Rabi al-Akhir", "Jumada al-Ula", "Jumada al-Akhirah",
		"Rajab", "Shaban", "Ramadan", "Shawwal", "Dhu al-Qadah", "Dhu al-Hijjah",
	},
	HijriSuffix: "H",

	ReminderTemplate: `Assalamu alaikum wa rahmatullahi wa barakatuh

Reminder: you are scheduled to give a talk {{if .Today}}today{{else}}on {{.Day.Name}}{{end}}
🕌 Mosque: {{.MosqueName}}
{{- with .Address}}
📍 Location: {{.}}
{{- end}}
📅 Day: {{.Day.Name}} {{.Day.Gregorian}}
🗓 Date: {{.Day.Hijri}}
🕋 Prayer: {{.Prayer}}
{{- with .MosquePhone}}
📞 Mosque phone: {{.}}
{{- end}}
{{- with .Notes}}
📝 Notes: {{.}}
{{- end}}
{{- with .Extra}}
📌 {{.}}
{{- end}}

Please reply "Done" once you have given the talk.
JazakAllahu khairan`,

	RosterTemplate: `Assalamu alaikum wa rahmatullahi wa barakatuh

📋 Speaking roster for {{.MosqueName}}
📅 {{.Day.Name}} {{.Day.Gregorian}} ({{.Day.Hijri}})
{{range .Items}}
🕋 {{.Prayer}}: {{.Caller}}{{with .Phone}} ({{.}}){{end}}
{{- with .Notes}}
   📝 {{.}}
{{- end}}
{{- end}}
{{- with .Extra}}

📌 {{.}}
{{- end}}

JazakumAllahu khairan`,

	DigestTemplate: `Assalamu alaikum wa rahmatullahi wa barakatuh

📋 Weekly speaking roster for {{.MosqueName}}
{{- range .Days}}

📅 {{.Day.Name}} {{.Day.Gregorian}} ({{.Day.Hijri}})
{{- range .Items}}
🕋 {{.Prayer}}: {{.Caller}}{{with .Phone}} ({{.}}){{end}}
{{- with .Notes}}
   📝 {{.}}
{{- end}}
{{- end}}
{{- end}}
{{- with .Extra}}

📌 {{.}}
{{- end}}

JazakumAllahu khairan`,
}

package locale

import "github.com/Nixie-Tech-LLC/minbar/internal/model"

var Arabic = Locale{
	Code:     "ar",
	Weekdays: [7]string{"السبت", "الأحد", "الإثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة"},
	Prayers: map[model.PrayerSlot]string{
		model.Fajr:    "الفجر",
		model.Dhuhr:   "الظهر",
		model.Asr:     "العصر",
		model.Maghrib: "المغرب",
		model.Isha:    "العشاء",
	},
	HijriMonths: [12]string{
		"محرم", "صفر", "ربيع الأول", "ربيع الآخر", "جمادى الأولى", "جمادى الآخرة",
		"رجب", "شعبان", "رمضان", "شوال", "ذو القعدة", "ذو الحجة",
	},
	HijriSuffix: "هـ",

	ReminderTemplate: `السلام عليكم ورحمة الله وبركاته

تذكير: لديك موعد إلقاء كلمة {{if .Today}}اليوم{{else}}يوم {{.Day.Name}}{{end}}
🕌 المسجد: {{.MosqueName}}
{{- with .Address}}
📍 الموقع: {{.}}
{{- end}}
📅 اليوم: {{.Day.Name}} {{.Day.Gregorian}}
🗓 التاريخ: {{.Day.Hijri}}
🕋 الصلاة: {{.Prayer}}
{{- with .MosquePhone}}
📞 هاتف المسجد: {{.}}
{{- end}}
{{- with .Notes}}
📝 ملاحظات: {{.}}
{{- end}}
{{- with .Extra}}
📌 {{.}}
{{- end}}

يرجى الرد بكلمة "تم" بعد إلقاء الكلمة
جزاك الله خيراً`,

	RosterTemplate: `السلام عليكم ورحمة الله وبركاته

📋 جدول الكلمات في {{.MosqueName}}
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

جزاكم الله خيراً`,

	DigestTemplate: `السلام عليكم ورحمة الله وبركاته

📋 الجدول الأسبوعي للكلمات في {{.MosqueName}}
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

جزاكم الله خيراً`,
}

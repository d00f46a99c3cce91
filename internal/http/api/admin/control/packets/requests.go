package packets

type MosqueRequest struct {
	Name        string `json:"name"         binding:"required,max=200"`
	Address     string `json:"address"      binding:"max=500"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"        binding:"omitempty,numeric,max=20"`
}

type CallerRequest struct {
	Name        string  `json:"name"         binding:"required,max=200"`
	CountryCode string  `json:"country_code"`
	Phone       string  `json:"phone"        binding:"required,numeric,max=20"`
	Email       *string `json:"email"        binding:"omitempty,email"`
}

// Weekday is a pointer so Saturday (0) passes the required check.
type ScheduleRequest struct {
	MosqueID int    `json:"mosque_id"   binding:"required"`
	CallerID int    `json:"caller_id"   binding:"required"`
	Weekday  *int   `json:"weekday"     binding:"required,min=0,max=6"`
	Prayer   string `json:"prayer_slot" binding:"omitempty,oneof=fajr dhuhr asr maghrib isha"`
	Notes    string `json:"notes"       binding:"max=1000"`
}

// body for every /reminders trigger; all fields are optional
type ReminderRequest struct {
	DaysAhead int    `json:"days_ahead" binding:"min=0,max=6"`
	MosqueIDs []int  `json:"mosque_ids"`
	ExtraNote string `json:"extra_note" binding:"max=1000"`
	Pace      bool   `json:"pace"`
	DryRun    bool   `json:"dry_run"`
}

package models

import "gorm.io/datatypes"

type ConsultationModel struct {
	ID            string  `gorm:"primaryKey;size:36"`
	TicketNumber  *string `gorm:"uniqueIndex:uk_consultations_ticket_number;size:32"`
	Channel       string  `gorm:"size:32;not null"`
	ChannelUserID string  `gorm:"size:128;not null"`
	// ActiveKey is set only while the intake is in progress; the unique
	// index then allows one active consultation per channel user.
	ActiveKey     *string `gorm:"uniqueIndex:uk_consultations_active_key;size:170"`
	CurrentStep   string  `gorm:"size:32;not null"`
	Status        string  `gorm:"size:16;not null"`
	MemberType    string  `gorm:"size:16;not null;default:''"`
	GuardianName  string  `gorm:"size:100;not null;default:''"`
	GuardianPhone string  `gorm:"size:20;not null;default:''"`
	PetType       string  `gorm:"size:16;not null;default:''"`
	PetName       string  `gorm:"size:100;not null;default:''"`
	PetAge        string  `gorm:"size:50;not null;default:''"`
	Category      string  `gorm:"size:32;not null;default:''"`
	Subcategory   string  `gorm:"size:64;not null;default:''"`
	Urgency       string  `gorm:"size:16;not null;default:''"`
	Description   string  `gorm:"type:text"`
	PreferredTime string  `gorm:"size:100;not null;default:''"`
	AssignedTo    string  `gorm:"size:100;not null;default:''"`
	AdminNotes    string  `gorm:"type:text"`
	Metadata      datatypes.JSONMap
	CreatedAt     int64 `gorm:"not null"`
	UpdatedAt     int64 `gorm:"not null"`
	CompletedAt   *int64
}

func (ConsultationModel) TableName() string {
	return "consultations"
}

// DailyCounterModel holds the last ticket sequence issued for a UTC day.
type DailyCounterModel struct {
	DateKey   string `gorm:"primaryKey;size:8"`
	Counter   int64  `gorm:"not null;default:0"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (DailyCounterModel) TableName() string {
	return "daily_counters"
}

package model

import "time"

// Screening is the persisted record of one completed analysis.
type Screening struct {
	CreatedAt   time.Time
	ID          string
	Name        string
	Gender      string
	Result      string
	ReportPath  string
	SpiralScore float64
	WaveScore   float64
	Confidence  float64
	Age         int
	Positive    bool
}

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	CreatedAt time.Time
	Name      string
	Email     string
	Subject   string
	Message   string
}

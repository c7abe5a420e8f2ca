package attendance

// MemberMeeting is one role a member took in a published meeting
type MemberMeeting struct {
	MemberID     string `json:"member_id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	MeetingID    string `json:"meeting_id"`
	MeetingNo    *int   `json:"meeting_no,omitempty"`
	MeetingDate  string `json:"meeting_date"`
	MeetingTheme string `json:"meeting_theme"`
	Role         string `json:"role"`
}

// MeetingAttendance is the reconciled attendance of one meeting in a date range
type MeetingAttendance struct {
	MeetingID    string `json:"meeting_id"`
	MeetingNo    *int   `json:"meeting_no,omitempty"`
	MeetingDate  string `json:"meeting_date"`
	MeetingTheme string `json:"meeting_theme"`
	Result
}

// DashboardResponse carries club statistics for a date range
type DashboardResponse struct {
	MemberMeetings    []*MemberMeeting     `json:"member_meetings"`
	MeetingAttendance []*MeetingAttendance `json:"meeting_attendance"`
}

package tool

const (
	ToolRecordCustomerInterest = "record_customer_interest"
	ToolRecordFeedback         = "record_feedback"
	ToolBookTrialSession       = "book_trial_session"
	ToolCheckClassAvailability = "check_class_availability"
)

var (
	severities   = []string{"low", "medium", "high"}
	sessionTypes = []string{SessionPersonalTraining, SessionGroupClass, SessionNutrition}
)

// DefaultCatalog returns the studio's four tools in the order they are offered to the model.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Name:        ToolRecordCustomerInterest,
			Description: "Records a potential customer's contact information and interest",
			Parameters: []ParameterSpec{
				{Name: "name", Description: "Customer's full name", Required: true},
				{Name: "email", Description: "Customer's email", Required: true},
				{Name: "interest", Description: "What they're interested in", Required: true},
				{Name: "phone", Description: "Optional phone number"},
			},
		},
		{
			Name:        ToolRecordFeedback,
			Description: "Records customer feedback, complaints, or suggestions",
			Parameters: []ParameterSpec{
				{Name: "feedback", Description: "The feedback text", Required: true},
				{Name: "customer_name", Description: "Customer name (default: Anonymous)", Default: "Anonymous"},
				{Name: "severity", Description: "Priority level", Kind: KindEnum, AllowedValues: severities, Default: "medium"},
			},
		},
		{
			Name:        ToolBookTrialSession,
			Description: "Books a free trial session for a potential customer",
			Parameters: []ParameterSpec{
				{Name: "name", Description: "Customer's full name", Required: true},
				{Name: "email", Description: "Customer's email", Required: true},
				{Name: "preferred_date", Description: "Preferred date", Kind: KindDate, Required: true},
				{Name: "session_type", Description: "Type of session", Kind: KindEnum, AllowedValues: sessionTypes, Required: true},
			},
		},
		{
			Name:        ToolCheckClassAvailability,
			Description: "Checks available time slots for a specific class type",
			Parameters: []ParameterSpec{
				{Name: "class_type", Description: "Type of class", Kind: KindEnum, AllowedValues: ClassTypes(), Required: true},
				{Name: "preferred_day", Description: "Day of week or 'today'/'tomorrow'", Required: true},
			},
		},
	}
}

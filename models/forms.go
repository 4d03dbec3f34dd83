package models

// PoliceCallForm holds the fields submitted to create a police call
type PoliceCallForm struct {
	Type        string `json:"type" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Description string `json:"description"`
	Units       string `json:"units" validate:"required"`
}

// FireCallForm holds the fields submitted to create a fire call
type FireCallForm struct {
	Type        string `json:"type" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Description string `json:"description"`
	Crossroads  string `json:"crossroads" validate:"required"`
	Rigs        string `json:"rigs" validate:"required"`
}

// BoloForm holds the fields submitted to create a BOLO
type BoloForm struct {
	Details string `json:"details" validate:"required"`
}

// UnitForm sets the status of a single unit
type UnitForm struct {
	CallSign string `json:"callSign" validate:"required"`
	Status   string `json:"status" validate:"required,tencode"`
}

// UpdateForm starts a maintenance countdown. Empty or non-positive values
// fall back to defaults.
type UpdateForm struct {
	Version         string `json:"version"`
	DurationMinutes int    `json:"durationMinutes"`
}

// BannerForm broadcasts a message to every console
type BannerForm struct {
	Message string `json:"message" validate:"required"`
}

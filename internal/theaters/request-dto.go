package theaters

type RegisterTheaterRequest struct {
	Name    string               `json:"name" binding:"required,min=2,max=255"`
	Address string               `json:"address" binding:"required,min=5,max=500"`
	City    string               `json:"city" binding:"required,min=2,max=100"`
	Screens []AddScreenRequest   `json:"screens" binding:"omitempty,max=20,dive"`
}

type AddScreenRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=50"`
	Capacity int    `json:"capacity" binding:"required,min=1,max=100"`
}

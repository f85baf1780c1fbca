package models

// FIPE reference data, used only to prefill the vehicle-creation form.
// Effectively static, so it is cached with a long TTL.

// FIPEBrand is one vehicle manufacturer in the reference table.
type FIPEBrand struct {
	Code string `json:"codigo"`
	Name string `json:"nome"`
}

// FIPEModel is one model under a brand.
type FIPEModel struct {
	Code int    `json:"codigo"`
	Name string `json:"nome"`
}

// FIPEModelList is the envelope the models endpoint returns.
type FIPEModelList struct {
	Models []FIPEModel `json:"modelos"`
}

// FIPEYear is one model-year option.
type FIPEYear struct {
	Code string `json:"codigo"`
	Name string `json:"nome"`
}

// FIPEVehicle is the full detail record for brand+model+year.
type FIPEVehicle struct {
	Brand     string `json:"marca"`
	Model     string `json:"modelo"`
	ModelYear int    `json:"anoModelo"`
	Fuel      string `json:"combustivel"`
	Price     string `json:"valor"`
	FIPECode  string `json:"codigoFipe"`
}

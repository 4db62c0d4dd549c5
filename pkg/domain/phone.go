package domain

type Phone struct {
	ID       int64      `json:"id"`
	Brand    string     `json:"brand"`
	Model    string     `json:"model"`
	Price    int        `json:"price"`
	Specs    PhoneSpecs `json:"specs"`
	Features []string   `json:"features"`
	Pros     []string   `json:"pros"`
	Cons     []string   `json:"cons"`
}

type PhoneSpecs struct {
	Camera        CameraSpecs `json:"camera"`
	BatteryMah    int         `json:"battery_mah"`
	FastChargingW int         `json:"fast_charging_w"`
	Processor     string      `json:"processor"`
	RAMGb         int         `json:"ram_gb"`
	StorageGb     int         `json:"storage_gb"`
	DisplayInches float64     `json:"display_inches"`
	RefreshRateHz int         `json:"refresh_rate_hz"`
	WeightG       int         `json:"weight_g"`
}

type CameraSpecs struct {
	MainMp      int      `json:"main_mp"`
	UltrawideMp int      `json:"ultrawide_mp,omitempty"`
	MacroMp     int      `json:"macro_mp,omitempty"`
	Features    []string `json:"features,omitempty"`
}

func (p Phone) FullName() string {
	return p.Brand + " " + p.Model
}

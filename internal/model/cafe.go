package model

// Cafe represents a café listed by the application.  This struct
// corresponds to a row in the `cafes` table.
//
// Fields:
//  ID           – primary key, assigned by the database and never reused.
//  Name         – unique display name.
//  MapURL       – link to the café on a map service.
//  ImgURL       – link to a photo of the café.
//  Location     – neighbourhood or area name.
//  Seats        – free-form seating description (e.g. "20-30").
//  CoffeePrice  – free-form price of a black coffee; may be empty.
//  HasToilet, HasWifi, HasSockets, CanTakeCalls – amenity flags.
type Cafe struct {
	ID           uint64 `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	MapURL       string `db:"map_url" json:"map_url"`
	ImgURL       string `db:"img_url" json:"img_url"`
	Location     string `db:"location" json:"location"`
	Seats        string `db:"seats" json:"seats"`
	CoffeePrice  string `db:"coffee_price" json:"coffee_price"`
	HasToilet    bool   `db:"has_toilet" json:"has_toilet"`
	HasWifi      bool   `db:"has_wifi" json:"has_wifi"`
	HasSockets   bool   `db:"has_sockets" json:"has_sockets"`
	CanTakeCalls bool   `db:"can_take_calls" json:"can_take_calls"`
}


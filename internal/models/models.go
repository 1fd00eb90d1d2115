package models

// ImageItem is an uploaded photograph. It is never modified after upload.
type ImageItem struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// Row is one exported name/value pair
type Row struct {
	Name  string `json:"name" parquet:"name"`
	Value string `json:"value" parquet:"value"`
}

// Line renders the row the way it appears in the CSV export and in captions.
func (r Row) Line() string {
	return r.Name + ";" + r.Value
}

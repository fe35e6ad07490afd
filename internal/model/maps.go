package model

// MapInfo describes a playable map
type MapInfo struct {
	ID     string
	Name   string
	Width  int
	Height int
}

// Maps is the built-in map catalog
var Maps = []MapInfo{
	{ID: "waterloo", Name: "Waterloo", Width: 2000, Height: 1200},
	{ID: "desert_siege", Name: "Desert Siege", Width: 2200, Height: 1300},
	{ID: "flat_land", Name: "Flat Land", Width: 2000, Height: 1200},
}

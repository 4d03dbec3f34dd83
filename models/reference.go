package models

// Rig describes a fire apparatus type and when it is dispatched
type Rig struct {
	Name     string `json:"name"`
	Criteria string `json:"criteria"`
}

// Script is a dispatcher read-out template
type Script struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

package console

import "github.com/linesmerrill/dispatch-console/models"

// FireRigs lists the fire apparatus types and when each is sent
var FireRigs = []models.Rig{
	{Name: "Engine (E-X)", Criteria: "Structure Fires, Vehicle Fires, EMS calls, Alarms"},
	{Name: "Ladder (L-X)", Criteria: "Structure Fires (Search/Ventilation), Technical Rescue"},
	{Name: "Rescue (R-X)", Criteria: "MVA with Entrapment, High-Angle Rescue, Water Rescue"},
	{Name: "Battalion (B-X)", Criteria: "Supervisor/Command for all working incidents"},
}

var scripts = map[string]string{
	"paging": "(Page sound) Attention (fire department name). Attention (fire department name) station (number). " +
		"(Call type) (call description) (responding rigs) (cross streets). (number). " +
		"(Call type) (call description) (responding rigs) (cross streets) (timeout 24 hour military time).",
}

// LookupScript returns the dispatcher script called name
func LookupScript(name string) (models.Script, bool) {
	text, ok := scripts[name]
	if !ok {
		return models.Script{}, false
	}
	return models.Script{Name: name, Text: text}, true
}

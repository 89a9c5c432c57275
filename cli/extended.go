package cli

import (
	"encoding/json"

	"pfeifer.dev/barc/cereal"
	ms "pfeifer.dev/barc/settings"
	"pfeifer.dev/barc/utils"
)

type extendedModel struct {
	settings ms.BarcSettings
	valid    bool
}

func (e extendedModel) update(out cereal.ExtendedOut, valid bool) extendedModel {
	if !valid {
		return e
	}
	data, err := out.Settings()
	if err != nil {
		utils.Logde(err)
		return e
	}
	err = e.settings.Unmarshal([]byte(data))
	if err != nil {
		utils.Logde(err)
		return e
	}
	e.valid = true
	return e
}

func (e extendedModel) View() string {
	if !e.valid {
		return docStyle.Render(dimStyle.Render("waiting for settings from a running instance"))
	}
	data, err := json.MarshalIndent(e.settings, "", "  ")
	if err != nil {
		return docStyle.Render(warnStyle.Render(err.Error()))
	}
	return docStyle.Render(titleStyle.Render("settings") + "\n\n" + string(data))
}

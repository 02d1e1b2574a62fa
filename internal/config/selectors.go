package config

// Selectors maps the logical elements of the portal to their on-page
// selectors. The portal is an ASP.NET WebForms app, so the identifiers are
// machine-generated and fragile; when the site layout changes only this
// mapping needs to be edited, not the scraper logic. Any field left empty
// in the config file falls back to the current known selector.
type Selectors struct {
	UsernameInput      string `yaml:"username_input,omitempty"`
	PasswordInput      string `yaml:"password_input,omitempty"`
	LoginButton        string `yaml:"login_button,omitempty"`
	LoginFocusCell     string `yaml:"login_focus_cell,omitempty"` // clicked to dismiss the username popup
	LoginFailureMarker string `yaml:"login_failure_marker,omitempty"`
	DashboardFrame     string `yaml:"dashboard_frame,omitempty"`
	ConsumptionLink    string `yaml:"consumption_link,omitempty"`
	TypeDropdown       string `yaml:"type_dropdown,omitempty"`
	TypeHourlyOption   string `yaml:"type_hourly_option,omitempty"`
	DateFromInput      string `yaml:"date_from_input,omitempty"`
	DateToInput        string `yaml:"date_to_input,omitempty"`
	RefreshButton      string `yaml:"refresh_button,omitempty"`
	HourlyTab          string `yaml:"hourly_tab,omitempty"`
	DataTable          string `yaml:"data_table,omitempty"`
	DataRow            string `yaml:"data_row,omitempty"`
	FooterTable        string `yaml:"footer_table,omitempty"`
	FooterRow          string `yaml:"footer_row,omitempty"`
	TotalPrefix        string `yaml:"total_prefix,omitempty"`
	MeterCard          string `yaml:"meter_card,omitempty"`  // %d = card index
	MeterField         string `yaml:"meter_field,omitempty"` // %d = card index, %d = field index
}

// DefaultSelectors are the identifiers the portal serves as of mid-2025.
func DefaultSelectors() Selectors {
	return Selectors{
		UsernameInput:      `#ASPxRoundPanel1_txtUsername_I`,
		PasswordInput:      `#ASPxRoundPanel1_txtPassword_I`,
		LoginButton:        `#ASPxRoundPanel1_btnLogin_CD`,
		LoginFocusCell:     `tr:nth-child(5) > td`,
		LoginFailureMarker: `Invalid IC Number or Password`,
		DashboardFrame:     `#MyFrame`,
		ConsumptionLink:    `#ASPxCardView1_DXCardLayout0_cell0_18_ASPxHyperLink4_0`,
		TypeDropdown:       `#cboType_I`,
		TypeHourlyOption:   `#cboType_DDD_L_LBI3T0`,
		DateFromInput:      `#cboDateFrom_I`,
		DateToInput:        `#cboDateTo_I`,
		RefreshButton:      `#btnRefresh_CD`,
		HourlyTab:          `#ASPxPageControl1_T1T`,
		DataTable:          `#ASPxPageControl1_grid_DXMainTable`,
		DataRow:            `tr.dxgvDataRow`,
		FooterTable:        `#ASPxPageControl1_grid_DXFooterTable`,
		FooterRow:          `#ASPxPageControl1_grid_DXFooterRow`,
		TotalPrefix:        `Total units:`,
		MeterCard:          `#ASPxCardView1_DXDataCard%d`,
		MeterField:         `#ASPxCardView1_DXCardLayout%d_%d .dxflNestedControlCell`,
	}
}

// PageSelectors returns the configured selectors merged over the defaults.
func (c *Config) PageSelectors() Selectors {
	sel := DefaultSelectors()
	override(&sel.UsernameInput, c.Selectors.UsernameInput)
	override(&sel.PasswordInput, c.Selectors.PasswordInput)
	override(&sel.LoginButton, c.Selectors.LoginButton)
	override(&sel.LoginFocusCell, c.Selectors.LoginFocusCell)
	override(&sel.LoginFailureMarker, c.Selectors.LoginFailureMarker)
	override(&sel.DashboardFrame, c.Selectors.DashboardFrame)
	override(&sel.ConsumptionLink, c.Selectors.ConsumptionLink)
	override(&sel.TypeDropdown, c.Selectors.TypeDropdown)
	override(&sel.TypeHourlyOption, c.Selectors.TypeHourlyOption)
	override(&sel.DateFromInput, c.Selectors.DateFromInput)
	override(&sel.DateToInput, c.Selectors.DateToInput)
	override(&sel.RefreshButton, c.Selectors.RefreshButton)
	override(&sel.HourlyTab, c.Selectors.HourlyTab)
	override(&sel.DataTable, c.Selectors.DataTable)
	override(&sel.DataRow, c.Selectors.DataRow)
	override(&sel.FooterTable, c.Selectors.FooterTable)
	override(&sel.FooterRow, c.Selectors.FooterRow)
	override(&sel.TotalPrefix, c.Selectors.TotalPrefix)
	override(&sel.MeterCard, c.Selectors.MeterCard)
	override(&sel.MeterField, c.Selectors.MeterField)
	return sel
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

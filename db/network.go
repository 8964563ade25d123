package db

// GetNetworkSettings reads the id=1 singleton row. If the row is missing
// (should not happen after migrations seed it, but mirrors
// original_source's fallback note in spec §9), callers apply the
// auto_proxy=true/no-proxies fallback themselves rather than this layer
// silently synthesizing a row.
func (d *DB) GetNetworkSettings() (NetworkSettings, error) {
	row := d.QueryRow(`SELECT id, auto_proxy, http_proxy, https_proxy, no_proxy FROM network_settings WHERE id = 1`)
	var s NetworkSettings
	var autoProxy int
	if err := row.Scan(&s.ID, &autoProxy, &s.HTTPProxy, &s.HTTPSProxy, &s.NoProxy); err != nil {
		return NetworkSettings{}, err
	}
	s.AutoProxy = autoProxy != 0
	return s, nil
}

func (d *DB) UpdateNetworkSettings(autoProxy bool, httpProxy, httpsProxy, noProxy *string) (NetworkSettings, error) {
	_, err := d.Exec(
		`UPDATE network_settings SET auto_proxy = ?, http_proxy = ?, https_proxy = ?, no_proxy = ? WHERE id = 1`,
		boolToInt(autoProxy), httpProxy, httpsProxy, noProxy,
	)
	if err != nil {
		return NetworkSettings{}, err
	}
	return d.GetNetworkSettings()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

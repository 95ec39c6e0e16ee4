package telemetry

import "testing"

func TestParseKnownFields(t *testing.T) {
	data := []byte(`{"batt_v":7.4,"batt_pct":73,"shutter_tempK":300.1,"aux_tempK":295.5,"shutter":"open","ffc":"idle"}`)
	tel, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if tel.BatteryVoltage == nil || *tel.BatteryVoltage != 7.4 {
		t.Errorf("BatteryVoltage = %v, want 7.4", tel.BatteryVoltage)
	}
	if tel.BatteryPercent == nil || *tel.BatteryPercent != 73 {
		t.Errorf("BatteryPercent = %v, want 73", tel.BatteryPercent)
	}
	if tel.ShutterTempK == nil || *tel.ShutterTempK != 300.1 {
		t.Errorf("ShutterTempK = %v, want 300.1", tel.ShutterTempK)
	}
	if tel.AuxTempK == nil || *tel.AuxTempK != 295.5 {
		t.Errorf("AuxTempK = %v, want 295.5", tel.AuxTempK)
	}
	if tel.Shutter != ShutterOpen {
		t.Errorf("Shutter = %v, want ShutterOpen", tel.Shutter)
	}
	if tel.FFC != FFCIdle {
		t.Errorf("FFC = %v, want FFCIdle", tel.FFC)
	}
}

// S3: only batt_pct reported -> BatteryPercent is present, every other
// numeric field is nil (not zero), matching spec.md §8 scenario S3.
func TestParsePartialFieldsOnly(t *testing.T) {
	tel, err := Parse([]byte(`{"batt_pct":73}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if tel.BatteryPercent == nil || *tel.BatteryPercent != 73 {
		t.Errorf("BatteryPercent = %v, want 73", tel.BatteryPercent)
	}
	if tel.BatteryVoltage != nil {
		t.Errorf("BatteryVoltage = %v, want nil (not reported)", tel.BatteryVoltage)
	}
	if tel.ShutterTempK != nil {
		t.Errorf("ShutterTempK = %v, want nil (not reported)", tel.ShutterTempK)
	}
	if tel.AuxTempK != nil {
		t.Errorf("AuxTempK = %v, want nil (not reported)", tel.AuxTempK)
	}
	if tel.Shutter != ShutterUnknown {
		t.Errorf("Shutter = %v, want ShutterUnknown for absent field", tel.Shutter)
	}
}

func TestParseMalformedIsError(t *testing.T) {
	if _, err := Parse([]byte(`{"batt_pct":`)); err == nil {
		t.Fatal("expected an error for malformed json")
	}
}

func TestParseUnknownKeysIgnored(t *testing.T) {
	if _, err := Parse([]byte(`{"unexpected_key":true,"batt_pct":50}`)); err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
}

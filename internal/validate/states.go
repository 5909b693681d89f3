package validate

// gstStateCodes maps GSTIN state prefixes to state abbreviations
var gstStateCodes = map[string]string{
	"01": "JK", "02": "HP", "03": "PB", "04": "CH", "05": "UK",
	"06": "HR", "07": "DL", "08": "RJ", "09": "UP", "10": "BR",
	"11": "SK", "12": "AR", "13": "NL", "14": "MN", "15": "MZ",
	"16": "TR", "17": "ML", "18": "AS", "19": "WB", "20": "JH",
	"21": "OD", "22": "CG", "23": "MP", "24": "GJ", "26": "DN",
	"27": "MH", "29": "KA", "30": "GA", "31": "LD", "32": "KL",
	"33": "TN", "34": "PY", "35": "AN", "36": "TS", "37": "AD",
	"38": "LA", "97": "OT",
}

// IsStateCode reports whether code is a registered GST state code
func IsStateCode(code string) bool {
	_, ok := gstStateCodes[code]
	return ok
}

// StateAbbreviation returns the state for a GST code, or "" if unknown
func StateAbbreviation(code string) string {
	return gstStateCodes[code]
}

package rest

import (
	"github.com/xeipuuv/gojsonschema"
)

const createDealSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["deal_name", "loan_amount", "asset_type", "loan_purpose", "loan_type"],
	"properties": {
		"deal_name":              {"type": "string", "minLength": 1, "maxLength": 200},
		"borrower_name":          {"type": "string", "maxLength": 200},
		"loan_amount":            {"type": "number", "exclusiveMinimum": 0},
		"asset_type":             {"enum": ["multifamily", "retail", "office", "industrial", "mhp", "mixed_use", "land"]},
		"loan_purpose":           {"enum": ["purchase", "refinance", "cash_out", "construction"]},
		"loan_type":              {"enum": ["bridge", "term", "construction", "perm"]},
		"property_address_line1": {"type": "string", "maxLength": 200},
		"property_city":          {"type": "string", "maxLength": 100},
		"property_state":         {"type": "string", "maxLength": 50},
		"property_zip_code":      {"type": "string", "maxLength": 20}
	}
}`

// Amounts may arrive as numbers or strings; unparseable values fall back to
// zero or null downstream rather than failing the request.
const financialsSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["net_operating_income", "annual_debt_service"],
	"properties": {
		"net_operating_income": {"type": ["number", "string"]},
		"annual_debt_service":  {"type": ["number", "string"]},
		"purchase_price":       {"type": ["number", "string", "null"]},
		"appraised_value":      {"type": ["number", "string", "null"]},
		"total_project_cost":   {"type": ["number", "string", "null"]}
	}
}`

const runUnderwritingSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["deal_id"],
	"properties": {
		"deal_id": {"type": "string", "format": "uuid"}
	}
}`

const createTermSheetSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["deal_id", "loan_amount", "interest_rate", "term_months"],
	"properties": {
		"deal_id":             {"type": "string", "format": "uuid"},
		"loan_amount":         {"type": "number", "exclusiveMinimum": 0},
		"interest_rate":       {"type": "number", "minimum": 0, "maximum": 30},
		"term_months":         {"type": "integer", "minimum": 1, "maximum": 600},
		"amortization_months": {"type": "integer", "minimum": 1, "maximum": 600},
		"ltv":                 {"type": "number", "minimum": 0, "maximum": 100},
		"recourse_type":       {"enum": ["recourse", "non_recourse", "partial"]},
		"prepayment_penalty":  {"type": "string"},
		"origination_fee":     {"type": "number", "minimum": 0, "maximum": 10},
		"conditions":          {"type": "string"},
		"expiration_date":     {"type": "string", "anyOf": [{"format": "date"}, {"format": "date-time"}]}
	}
}`

var (
	createDealValidator      = mustSchema(createDealSchema)
	financialsValidator      = mustSchema(financialsSchema)
	runUnderwritingValidator = mustSchema(runUnderwritingSchema)
	createTermSheetValidator = mustSchema(createTermSheetSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("rest: invalid request schema: " + err.Error())
	}
	return schema
}

// validateBody checks body against schema and returns one message per
// violation, or nil when the document is valid.
func validateBody(schema *gojsonschema.Schema, body []byte) []string {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return []string{"request body must be a JSON object"}
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return errs
}

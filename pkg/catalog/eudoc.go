package catalog

// EUDocTemplateName is the registry key of the built-in EU Declaration
// of Conformity template.
const EUDocTemplateName = "eu_doc"

// EUDocTemplate returns the built-in EU Declaration of Conformity
// template. The requirement set covers MDR/MDD declarations for medical
// devices: issuer identity, product identification, the declaration
// statement itself, regulation and standard references, notified-body
// and authorized-representative data, CE marking, and signature/date.
func EUDocTemplate() *Template {
	return &Template{
		Name:        EUDocTemplateName,
		DisplayName: "EU Declaration of Conformity",
		Version:     "1.0",
		ApplicableRegulations: []string{
			"Regulation (EU) 2017/745 (MDR)",
			"Directive 93/42/EEC (MDD)",
			"Regulation (EU) 2016/425 (PPE)",
		},
		Requirements: []Requirement{
			{
				ID:          "manufacturer_info",
				Title:       "Manufacturer Information",
				Description: "Name, address, and contact details of the manufacturer",
				Required:    true,
				Patterns: []string{
					`manufacturer[\s:]+([^\n]+)`,
					`company[\s:]+([^\n]+)`,
					`address[\s:]+([^\n]+)`,
				},
				ValidationRules: []string{
					"must_contain_company_name",
					"must_contain_address",
					"address_must_include_country",
				},
				Severity:            SeverityCritical,
				RegulationReference: "MDR Article 10",
				Examples: []string{
					"Manufacturer: ABC Medical Devices GmbH",
					"Address: Example Street 123, 12345 Berlin, Germany",
				},
			},
			{
				ID:          "product_identification",
				Title:       "Product Identification",
				Description: "Clear identification of the medical device or product",
				Required:    true,
				Patterns: []string{
					`product[\s:]+([^\n]+)`,
					`device[\s:]+([^\n]+)`,
					`model[\s:]+([^\n]+)`,
					`article[\s:]+([^\n]+)`,
				},
				ValidationRules: []string{
					"must_contain_product_name",
					"should_contain_model_number",
					"should_contain_article_number",
				},
				Severity:            SeverityCritical,
				RegulationReference: "MDR Article 27",
				Examples: []string{
					"Product: XYZ Surgical Instrument",
					"Model: SI-2024-001",
				},
			},
			{
				ID:          "declaration_statement",
				Title:       "Declaration of Conformity Statement",
				Description: "Formal declaration that the product meets applicable requirements",
				Required:    true,
				Patterns: []string{
					`declaration\s+of\s+conformity`,
					`hereby\s+declare`,
					`we\s+declare\s+that`,
					`conformity\s+is\s+declared`,
				},
				ValidationRules: []string{
					"must_contain_declaration_phrase",
					"must_be_in_present_tense",
					"should_reference_manufacturer",
				},
				Severity:            SeverityCritical,
				RegulationReference: "MDR Annex IV",
				Examples: []string{
					"We hereby declare that the above-mentioned product is in conformity",
				},
			},
			{
				ID:          "applicable_regulations",
				Title:       "Applicable Regulations",
				Description: "Reference to applicable EU regulations and directives",
				Required:    true,
				Patterns: []string{
					`regulation\s+\(eu\)\s+\d+/\d+`,
					`directive\s+\d+/\d+/eec`,
					`mdr`,
					`medical\s+device\s+regulation`,
				},
				ValidationRules: []string{
					"must_reference_mdr_or_mdd",
					"regulation_numbers_must_be_correct",
					"must_specify_applicable_annexes",
				},
				Severity:            SeverityHigh,
				RegulationReference: "MDR Article 19",
				Examples: []string{
					"Regulation (EU) 2017/745 (MDR)",
					"Directive 93/42/EEC (MDD)",
				},
			},
			{
				ID:          "harmonised_standards",
				Title:       "Harmonised Standards",
				Description: "List of harmonised standards applied",
				Required:    true,
				Patterns: []string{
					`harmonised\s+standards?`,
					`en\s+\d+`,
					`iso\s+\d+`,
					`iec\s+\d+`,
				},
				ValidationRules: []string{
					"must_list_applicable_standards",
					"standards_must_include_version_dates",
					"should_explain_standard_application",
				},
				Severity:            SeverityHigh,
				RegulationReference: "MDR Article 8",
				Examples: []string{
					"EN ISO 14971:2019",
					"EN ISO 10993-1:2018",
				},
			},
			{
				ID:          "notified_body",
				Title:       "Notified Body Information",
				Description: "Information about notified body involvement (if applicable)",
				Required:    false,
				Patterns: []string{
					`notified\s+body`,
					`nb\s+\d+`,
					`certificate\s+number`,
					`conformity\s+assessment`,
				},
				ValidationRules: []string{
					"notified_body_number_must_be_valid",
					"certificate_number_format_check",
					"must_specify_assessment_procedure",
				},
				Severity:            SeverityMedium,
				RegulationReference: "MDR Article 35",
				Examples: []string{
					"Notified Body: TÜV SÜD Product Service GmbH (NB 0123)",
				},
			},
			{
				ID:          "ce_marking",
				Title:       "CE Marking Declaration",
				Description: "Declaration regarding CE marking affixing",
				Required:    true,
				Patterns: []string{
					`ce\s+marking`,
					`ce\s+mark`,
					`conformity\s+marking`,
				},
				ValidationRules: []string{
					"must_declare_ce_marking_affixed",
					"should_specify_marking_location",
					"must_confirm_marking_visibility",
				},
				Severity:            SeverityHigh,
				RegulationReference: "MDR Article 20",
				Examples: []string{
					"CE marking has been affixed to the product",
				},
			},
			{
				ID:          "authorized_representative",
				Title:       "Authorized Representative",
				Description: "EU authorized representative information (if applicable)",
				Required:    false,
				Patterns: []string{
					`authorized\s+representative`,
					`authorised\s+representative`,
					`eu\s+representative`,
					`european\s+representative`,
				},
				ValidationRules: []string{
					"must_include_representative_name",
					"must_include_eu_address",
					"should_include_contact_details",
				},
				Severity:            SeverityMedium,
				RegulationReference: "MDR Article 11",
				Examples: []string{
					"Authorized Representative: EU MedTech Services, Amsterdam, Netherlands",
				},
			},
			{
				ID:          "signature_date",
				Title:       "Signature and Date",
				Description: "Authorized signature and declaration date",
				Required:    true,
				Patterns: []string{
					`signature`,
					`signed\s+by`,
					`date[\s:]+\d`,
					`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`,
				},
				ValidationRules: []string{
					"must_include_signature_line",
					"must_include_date",
					"date_must_be_recent",
					"signatory_must_be_authorized",
				},
				Severity:            SeverityHigh,
				RegulationReference: "MDR Annex IV",
				Examples: []string{
					"Date: 15.03.2024",
					"Signature: Dr. Med. Director",
				},
			},
		},
	}
}

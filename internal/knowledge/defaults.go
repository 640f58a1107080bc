package knowledge

import "github.com/tordrt/catalogue/internal/catalog"

// DefaultDefinition returns the built-in knowledge tables for the Horizon
// Bank lakehouse.
func DefaultDefinition() Definition {
	return Definition{
		PiiRules: defaultRules(),
		Glossary: defaultGlossary(),
		Lineage:  defaultLineage(),
		Layers:   defaultLayers(),
	}
}

// Default returns the built-in knowledge base
func Default() *Base {
	b, err := New(DefaultDefinition())
	if err != nil {
		panic("knowledge: invalid built-in definition: " + err.Error())
	}
	return b
}

func defaultRules() []RuleSet {
	return []RuleSet{
		{
			Level: catalog.PII,
			Columns: []string{
				"first_name", "last_name", "email", "phone", "address_line1", "date_of_birth",
				"CUST_NAME", "ADDR1", "EMAIL", "PHONE", "PersonEmail", "Phone", "MailingStreet",
				"FULL_NAME", "EMAIL_ADDR", "PHONE_NUM", "STREET_ADDR", "FirstName", "LastName",
			},
			Patterns: []string{`email`, `phone`, `addr`, `name`, `birth`, `dob`},
		},
		{
			Level: catalog.SPII,
			Columns: []string{
				"ssn_hash", "fico_score", "annual_income", "FICO", "CREDIT_SCORE", "risk_tier",
				"Annual_Revenue__c", "RISK_RATING", "probability_of_default", "loss_given_default",
			},
			Patterns: []string{`ssn`, `fico`, `income`, `credit_score`, `risk`},
		},
		{
			Level: catalog.Confidential,
			Columns: []string{
				"account_number", "account_id", "customer_id", "balance", "credit_limit", "apr",
				"amount", "loss_amount", "risk_score", "CIF_NUM", "AccountId", "PARTY_ID",
				"composite_score", "expected_loss",
			},
			Patterns: []string{`account`, `balance`, `limit`, `amount`, `score`},
		},
	}
}

func defaultGlossary() map[string]catalog.GlossaryEntry {
	return map[string]catalog.GlossaryEntry{
		"customer_id": {
			Term:       "Customer Identifier",
			Definition: "Unique golden record identifier for a customer entity, MDM-assigned after deduplication across source systems.",
			Domain:     "MDM",
			Steward:    "Data Governance Team",
		},
		"fico_score": {
			Term:       "FICO Score",
			Definition: "Fair Isaac Corporation credit score (300-850) indicating creditworthiness. Sourced from Core Banking as authoritative system.",
			Domain:     "Credit Risk",
			Steward:    "Risk Analytics",
		},
		"segment": {
			Term:       "Customer Segment",
			Definition: "Wealth-based segmentation: mass_market (<$75K), mass_affluent ($75K-$150K), affluent ($150K-$300K), high_net_worth ($300K-$750K), ultra_hnw (>$750K).",
			Domain:     "Marketing",
			Steward:    "Customer Analytics",
		},
		"risk_tier": {
			Term:       "Credit Risk Tier",
			Definition: "Risk classification based on FICO: super_prime (750+), prime (700-749), near_prime (650-699), subprime (580-649), deep_subprime (<580).",
			Domain:     "Credit Risk",
			Steward:    "Risk Analytics",
		},
		"balance": {
			Term:       "Account Balance",
			Definition: "Current outstanding balance on the account. For credit cards: amount owed. For loans: remaining principal. For deposits: available funds.",
			Domain:     "Finance",
			Steward:    "Finance Operations",
		},
		"transaction_id": {
			Term:       "Transaction Identifier",
			Definition: "Unique identifier for each financial transaction. Immutable once created.",
			Domain:     "Payments",
			Steward:    "Payment Operations",
		},
		"mcc_code": {
			Term:       "Merchant Category Code",
			Definition: "ISO 18245 four-digit code classifying the merchant's business type for card transactions.",
			Domain:     "Payments",
			Steward:    "Merchant Services",
		},
		"days_past_due": {
			Term:       "Days Past Due (DPD)",
			Definition: "Number of days a payment is overdue. Key delinquency indicator: 0=current, 30/60/90/120+ trigger escalating actions.",
			Domain:     "Collections",
			Steward:    "Collections Team",
		},
		"probability_of_default": {
			Term:       "Probability of Default (PD)",
			Definition: "Statistical likelihood (0-1) that a borrower will default within 12 months. Basel II/III regulatory metric.",
			Domain:     "Credit Risk",
			Steward:    "Risk Analytics",
		},
		"composite_score": {
			Term:       "MDM Composite Match Score",
			Definition: "Weighted similarity score (0-1) across name, email, phone, address, and cross-system dimensions. ≥0.92=auto_merge, 0.75-0.92=review, <0.75=no_match.",
			Domain:     "MDM",
			Steward:    "Data Governance Team",
		},
		"rewards_earned": {
			Term:       "Rewards Earned",
			Definition: "Dollar value of rewards points/cashback earned on a transaction, calculated by product-specific reward rates.",
			Domain:     "Loyalty",
			Steward:    "Loyalty Program",
		},
		"acquisition_channel": {
			Term:       "Acquisition Channel",
			Definition: "Marketing channel through which the customer was originally acquired: branch, web, mobile_app, phone, mail, partner_referral, social_media.",
			Domain:     "Marketing",
			Steward:    "Customer Analytics",
		},
		"digital_enrolled": {
			Term:       "Digital Banking Enrollment",
			Definition: "Boolean flag indicating whether the customer has activated digital banking (web or mobile app access).",
			Domain:     "Digital",
			Steward:    "Digital Banking",
		},
		"fraud_flag": {
			Term:       "Fraud Flag",
			Definition: "Boolean indicator set by the real-time fraud detection engine when a transaction triggers ML model or rules-based alerts.",
			Domain:     "Fraud",
			Steward:    "Fraud Operations",
		},
		"alert_type": {
			Term:       "Fraud Alert Type",
			Definition: "Classification of the fraud/AML alert: velocity_spike, geographic_anomaly, large_purchase, account_takeover_attempt, structuring_pattern, etc.",
			Domain:     "Fraud",
			Steward:    "Fraud Operations",
		},
		"partner_id": {
			Term:       "Partner Identifier",
			Definition: "Unique identifier for co-brand partners, merchant networks, and digital partners in the rewards ecosystem.",
			Domain:     "Partnerships",
			Steward:    "Partnership Team",
		},
		"interchange_revenue": {
			Term:       "Interchange Revenue",
			Definition: "Fee earned per card transaction, paid by the merchant's bank to Horizon Bank. Typically 1.5-3.5% of transaction value.",
			Domain:     "Finance",
			Steward:    "Finance Operations",
		},
	}
}

func defaultLineage() map[string]catalog.LineageEntry {
	return map[string]catalog.LineageEntry{
		"dim_customer": {
			Layer: "gold",
			Upstream: []catalog.Upstream{
				{Table: "core_banking_customers", Layer: "bronze", Join: "SSN_HASH → ssn_hash", Transform: "Uppercase name split, phone normalize"},
				{Table: "salesforce_accounts", Layer: "bronze", Join: "PersonEmail → email", Transform: "CRM fields mapped"},
				{Table: "fiserv_parties", Layer: "bronze", Join: "EMAIL_ADDR → email", Transform: "Name parsing, risk mapping"},
				{Table: "mdm_match_pairs", Layer: "mdm", Join: "customer_id_1/2 → customer_id", Transform: "Survivorship rules applied"},
			},
			Downstream: []string{"dim_account", "fact_transactions", "fact_loan_payments", "fact_credit_risk", "digital_events", "fraud_alerts"},
			Refresh:    "Every 4 hours (CDC from Core Banking)",
			SLA:        "< 4 hours from source change",
		},
		"dim_account": {
			Layer: "gold",
			Upstream: []catalog.Upstream{
				{Table: "dim_customer", Layer: "gold", Join: "customer_id", Transform: "FK reference"},
				{Table: "dim_product", Layer: "gold", Join: "product_id", Transform: "Product enrichment"},
			},
			Downstream: []string{"fact_transactions", "fact_loan_payments", "fact_credit_risk"},
			Refresh:    "Every 4 hours",
			SLA:        "< 4 hours",
		},
		"fact_transactions": {
			Layer: "gold",
			Upstream: []catalog.Upstream{
				{Table: "dim_account", Layer: "gold", Join: "account_id", Transform: "Account enrichment"},
				{Table: "dim_customer", Layer: "gold", Join: "customer_id", Transform: "Customer enrichment"},
			},
			Downstream: []string{"fraud_alerts", "partner_performance"},
			Refresh:    "Near real-time (streaming)",
			SLA:        "< 15 minutes",
		},
		"fact_credit_risk": {
			Layer: "gold",
			Upstream: []catalog.Upstream{
				{Table: "dim_customer", Layer: "gold", Join: "customer_id", Transform: "FICO, risk tier"},
				{Table: "dim_account", Layer: "gold", Join: "account_id (aggregated)", Transform: "Balance aggregation"},
			},
			Downstream: []string{},
			Refresh:    "Daily snapshot",
			SLA:        "< 6 hours (overnight batch)",
		},
		"fraud_alerts": {
			Layer: "gold",
			Upstream: []catalog.Upstream{
				{Table: "fact_transactions", Layer: "gold", Join: "transaction_id", Transform: "ML model scoring"},
				{Table: "dim_account", Layer: "gold", Join: "account_id", Transform: "Account context"},
			},
			Downstream: []string{},
			Refresh:    "Real-time (event-driven)",
			SLA:        "< 500ms from transaction",
		},
		"digital_events": {
			Layer: "clickstream",
			Upstream: []catalog.Upstream{
				{Table: "dim_customer", Layer: "gold", Join: "customer_id", Transform: "Session attribution"},
			},
			Downstream: []string{},
			Refresh:    "Streaming (Kinesis)",
			SLA:        "< 5 minutes",
		},
		"core_banking_customers": {
			Layer: "bronze",
			Upstream: []catalog.Upstream{
				{Table: "Oracle Core Banking DB", Layer: "source", Join: "JDBC CDC", Transform: "None (raw extract)"},
			},
			Downstream: []string{"dim_customer"},
			Refresh:    "Every 4 hours (incremental CDC)",
			SLA:        "< 30 minutes extraction",
		},
		"salesforce_accounts": {
			Layer: "bronze",
			Upstream: []catalog.Upstream{
				{Table: "Salesforce CRM", Layer: "source", Join: "Bulk API v2", Transform: "None (raw extract)"},
			},
			Downstream: []string{"dim_customer"},
			Refresh:    "Every 2 hours + real-time CDC",
			SLA:        "< 15 minutes",
		},
		"fiserv_parties": {
			Layer: "bronze",
			Upstream: []catalog.Upstream{
				{Table: "Fiserv SFTP", Layer: "source", Join: "File drop", Transform: "None (raw CSV)"},
			},
			Downstream: []string{"dim_customer"},
			Refresh:    "Daily at 02:00 UTC",
			SLA:        "< 1 hour after file drop",
		},
		"mdm_match_pairs": {
			Layer: "mdm",
			Upstream: []catalog.Upstream{
				{Table: "core_banking_customers", Layer: "bronze", Join: "Fuzzy match", Transform: "Jaro-Winkler scoring"},
				{Table: "salesforce_accounts", Layer: "bronze", Join: "Fuzzy match", Transform: "Jaro-Winkler scoring"},
				{Table: "fiserv_parties", Layer: "bronze", Join: "Fuzzy match", Transform: "Jaro-Winkler scoring"},
			},
			Downstream: []string{"dim_customer"},
			Refresh:    "After Silver refresh",
			SLA:        "< 1 hour after Silver completes",
		},
	}
}

func defaultLayers() []Layer {
	return []Layer{
		{Name: "bronze", Tables: []string{"core_banking_customers", "salesforce_accounts", "fiserv_parties"}},
		{Name: "gold", Tables: []string{"dim_customer", "dim_account", "dim_product", "dim_date", "fact_transactions", "fact_loan_payments", "fact_credit_risk"}},
		{Name: "clickstream", Tables: []string{"digital_events"}},
		{Name: "fraud", Tables: []string{"fraud_alerts"}},
		{Name: "partners", Tables: []string{"partner_performance"}},
		{Name: "realtime", Tables: []string{"hourly_metrics"}},
		{Name: "mdm", Tables: []string{"mdm_match_pairs"}},
	}
}

package validation

const (
	SchemaRankingRequest = "ranking_request"
	SchemaRequirements   = "requirements"
	SchemaEmployeeSkills = "employee_skills"
	SchemaAllocation     = "allocation"
	SchemaSkillCreate    = "skill_create"
	SchemaSkillNormalize = "skill_normalize"
)

const (
	uuidPattern         = `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`
	datePattern         = `^[0-9]{4}-[0-9]{2}-[0-9]{2}$`
	proficiencyEnumJSON = `["beginner", "intermediate", "expert"]`
)

var rawSchemas = map[string]string{
	SchemaRankingRequest: `{
		"type": "object",
		"properties": {
			"candidate_ids": {
				"type": "array",
				"maxItems": 5000,
				"items": {"type": "string", "pattern": "` + uuidPattern + `"}
			},
			"min_score": {"type": "integer", "minimum": 0, "maximum": 100},
			"limit": {"type": "integer", "minimum": 0, "maximum": 1000},
			"exclude_mandatory_missing": {"type": "boolean"}
		},
		"additionalProperties": false
	}`,

	SchemaRequirements: `{
		"type": "object",
		"required": ["requirements"],
		"properties": {
			"requirements": {
				"type": "array",
				"maxItems": 200,
				"items": {
					"type": "object",
					"required": ["skill", "required_proficiency"],
					"properties": {
						"skill": {"type": "string", "minLength": 1, "maxLength": 100},
						"required_proficiency": {"type": "string", "enum": ` + proficiencyEnumJSON + `},
						"is_mandatory": {"type": "boolean"},
						"min_experience_years": {"type": ["integer", "null"], "minimum": 0, "maximum": 60}
					},
					"additionalProperties": false
				}
			}
		},
		"additionalProperties": false
	}`,

	SchemaEmployeeSkills: `{
		"type": "object",
		"required": ["skills"],
		"properties": {
			"skills": {
				"type": "array",
				"maxItems": 200,
				"items": {
					"type": "object",
					"required": ["skill", "proficiency_level"],
					"properties": {
						"skill": {"type": "string", "minLength": 1, "maxLength": 100},
						"proficiency_level": {"type": "string", "enum": ` + proficiencyEnumJSON + `},
						"years_experience": {"type": "integer", "minimum": 0, "maximum": 60},
						"is_primary": {"type": "boolean"},
						"last_used_date": {"type": ["string", "null"], "pattern": "` + datePattern + `"},
						"endorsements": {"type": "integer", "minimum": 0}
					},
					"additionalProperties": false
				}
			}
		},
		"additionalProperties": false
	}`,

	SchemaAllocation: `{
		"type": "object",
		"required": ["profile_id", "role_in_project", "allocation_percentage", "start_date"],
		"properties": {
			"profile_id": {"type": "string", "pattern": "` + uuidPattern + `"},
			"role_in_project": {"type": "string", "minLength": 1, "maxLength": 120},
			"allocation_percentage": {"type": "integer", "minimum": 1, "maximum": 100},
			"start_date": {"type": "string", "pattern": "` + datePattern + `"}
		},
		"additionalProperties": false
	}`,

	SchemaSkillCreate: `{
		"type": "object",
		"required": ["name", "category"],
		"properties": {
			"name": {"type": "string", "minLength": 1, "maxLength": 100},
			"category": {"type": "string", "minLength": 1, "maxLength": 100},
			"description": {"type": ["string", "null"], "maxLength": 1000}
		},
		"additionalProperties": false
	}`,

	SchemaSkillNormalize: `{
		"type": "object",
		"required": ["refs"],
		"properties": {
			"refs": {
				"type": "array",
				"minItems": 1,
				"maxItems": 500,
				"items": {"type": "string"}
			}
		},
		"additionalProperties": false
	}`,
}

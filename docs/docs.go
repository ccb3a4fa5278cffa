package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Qualifier",
    "description": "Qualify a person as a speaker or participant for an event",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/api/qualifications": {
      "post": {
        "tags": ["qualifications"],
        "summary": "Qualify a person for an event",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {
            "in": "body",
            "name": "request",
            "required": true,
            "schema": {"$ref": "#/definitions/QualifyRequest"}
          }
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/QualifyResponse"}},
          "400": {"description": "Invalid or incomplete request", "schema": {"$ref": "#/definitions/Error"}},
          "409": {"description": "Submission already in progress", "schema": {"$ref": "#/definitions/Error"}}
        }
      }
    },
    "/api/bands": {
      "get": {
        "tags": ["qualifications"],
        "summary": "Qualification bands",
        "produces": ["application/json"],
        "responses": {
          "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/BandInfo"}}}
        }
      }
    },
    "/healthz": {
      "get": {
        "tags": ["system"],
        "summary": "Health check",
        "produces": ["application/json"],
        "responses": {
          "200": {"description": "OK"},
          "503": {"description": "Qualification service unavailable", "schema": {"$ref": "#/definitions/Error"}}
        }
      }
    }
  },
  "definitions": {
    "EventDetails": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "type": {"type": "string"},
        "requirements": {"type": "array", "items": {"type": "string"}},
        "audience": {"type": "string"},
        "format": {"type": "string"}
      }
    },
    "QualifyRequest": {
      "type": "object",
      "required": ["mode"],
      "properties": {
        "person_name": {"type": "string"},
        "mode": {"type": "string", "enum": ["url", "manual"]},
        "event_url": {"type": "string"},
        "event_details": {"$ref": "#/definitions/EventDetails"}
      }
    },
    "InformationSource": {
      "type": "object",
      "properties": {
        "query": {"type": "string"},
        "source": {"type": "string"},
        "found_existing": {"type": "boolean"}
      }
    },
    "QualificationResult": {
      "type": "object",
      "properties": {
        "person_name": {"type": "string"},
        "qualification_score": {"type": "number"},
        "qualification_reasoning": {"type": "string"},
        "searches_performed": {"type": "integer"},
        "information_sources": {"type": "array", "items": {"$ref": "#/definitions/InformationSource"}},
        "timestamp": {"type": "string"},
        "error": {"type": "string"},
        "event_url": {"type": "string"},
        "event_extracted_from_url": {"type": "boolean"},
        "event_details": {"$ref": "#/definitions/EventDetails"}
      }
    },
    "QualifyResponse": {
      "type": "object",
      "properties": {
        "submission_id": {"type": "string"},
        "band": {"type": "string", "enum": ["highly_qualified", "well_qualified", "minimally_qualified", "not_qualified", "failed"]},
        "label": {"type": "string"},
        "result": {"$ref": "#/definitions/QualificationResult"}
      }
    },
    "BandInfo": {
      "type": "object",
      "properties": {
        "band": {"type": "string"},
        "label": {"type": "string"},
        "min_score": {"type": "number"}
      }
    },
    "Error": {
      "type": "object",
      "properties": {
        "error": {
          "type": "object",
          "properties": {
            "code": {"type": "string"},
            "message": {"type": "string"},
            "details": {}
          }
        }
      }
    }
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}

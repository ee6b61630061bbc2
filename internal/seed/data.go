package seed

import (
	"fmt"

	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/pkg/auth"
)

// Sample records, in Spanish as shown to users.

func Institutions() []models.Institution {
	return []models.Institution{
		{ID: "1", Name: "MinCiencias", Description: "Ministerio de Ciencia, Tecnología e Innovación", Website: "https://minciencias.gov.co"},
		{ID: "2", Name: "SENA", Description: "Servicio Nacional de Aprendizaje", Website: "https://www.sena.edu.co"},
		{ID: "3", Name: "iNNpulsa", Description: "Agencia de emprendimiento e innovación", Website: "https://innpulsacolombia.com"},
	}
}

func Lines() []models.Line {
	return []models.Line{
		{ID: "1", Name: "Investigación", Description: "Proyectos de investigación científica"},
		{ID: "2", Name: "Emprendimiento", Description: "Creación y fortalecimiento de empresas"},
		{ID: "3", Name: "Formación", Description: "Becas y programas de formación"},
	}
}

func TargetAudiences() []models.TargetAudience {
	return []models.TargetAudience{
		{ID: "1", Name: "Investigadores", Description: "Grupos y centros de investigación"},
		{ID: "2", Name: "Emprendedores", Description: "Personas con ideas de negocio"},
		{ID: "3", Name: "Estudiantes", Description: "Estudiantes de pregrado y posgrado"},
	}
}

func Interests() []models.Interest {
	return []models.Interest{
		{ID: "1", Name: "Tecnología", Description: "Software, hardware y transformación digital"},
		{ID: "2", Name: "Medio ambiente", Description: "Sostenibilidad y economía circular"},
		{ID: "3", Name: "Salud", Description: "Bienestar y ciencias de la vida"},
	}
}

func Types() []models.Type {
	return []models.Type{
		{ID: "1", Name: "Financiación", Description: "Recursos económicos no reembolsables"},
		{ID: "2", Name: "Beca", Description: "Apoyo para estudios"},
	}
}

func Requirements() []models.Requirement {
	return []models.Requirement{
		{ID: "1", Name: "Registro mercantil vigente", Description: "Certificado de cámara de comercio no mayor a 30 días"},
		{ID: "2", Name: "Estados financieros", Description: "Estados financieros del último año"},
	}
}

func Roles() []models.Role {
	return []models.Role{
		{ID: "1", Name: models.AdminRoleName, Description: "Acceso total a la consola"},
		{ID: "2", Name: models.DefaultRoleName, Description: "Consulta de convocatorias"},
	}
}

func Departments() []models.Department {
	return []models.Department{
		{ID: "1", Name: "Antioquia"},
		{ID: "2", Name: "Valle del Cauca"},
		{ID: "3", Name: "Cundinamarca"},
	}
}

func Cities() []models.City {
	return []models.City{
		{ID: "1", Name: "Medellín", DepartmentID: "1"},
		{ID: "2", Name: "Cali", DepartmentID: "2"},
		{ID: "3", Name: "Bogotá", DepartmentID: "3"},
	}
}

func Companies() []models.Company {
	return []models.Company{
		{
			ID:               "1",
			Name:             "Soluciones Andinas S.A.S.",
			TaxID:            "900123456-7",
			Address:          "Calle 10 # 43-20",
			City:             "Medellín",
			Phone:            "6045550000",
			Email:            "contacto@andinas.co",
			ContactName:      "Laura Gómez",
			LegalRepName:     "Carlos Pérez",
			EconomicActivity: "Desarrollo de software",
			EmployeeCount:    25,
		},
		{
			ID:               "2",
			Name:             "AgroVerde Ltda.",
			TaxID:            "800987654-1",
			City:             "Cali",
			Email:            "info@agroverde.co",
			ContactName:      "Andrés Ruiz",
			EconomicActivity: "Agricultura sostenible",
			EmployeeCount:    12,
		},
	}
}

func Checks() []models.Check {
	return []models.Check{
		{ID: "1", CompanyID: "1", RequirementID: "1", Passed: true, CheckedAt: "2024-02-01"},
		{ID: "2", CompanyID: "2", RequirementID: "2", Passed: false, Notes: "Falta el estado de resultados", CheckedAt: "2024-02-03"},
	}
}

func Calls() []models.Call {
	return []models.Call{
		{
			ID:               "1",
			Title:            "Jóvenes Investigadores 2024",
			Description:      "Apoyo a jóvenes talentos para vincularse a grupos de investigación.",
			Resources:        "Beca-pasantía por 12 meses",
			Link:             "https://minciencias.gov.co/convocatorias",
			OpenDate:         "2024-02-15",
			CloseDate:        "2024-04-30",
			PageName:         "MinCiencias",
			PageURL:          "https://minciencias.gov.co",
			Objective:        "Fortalecer las capacidades de investigación del país.",
			Notes:            "Requiere aval institucional.",
			InstitutionID:    "1",
			LineID:           "1",
			TargetAudienceID: "1",
			InterestID:       "1",
		},
		{
			ID:               "2",
			Title:            "Fondo Emprender",
			Description:      "Capital semilla para planes de negocio de aprendices y profesionales.",
			Resources:        "Hasta 180 SMMLV",
			OpenDate:         "2024-03-01",
			CloseDate:        "2024-05-31",
			PageName:         "SENA",
			PageURL:          "https://www.fondoemprender.com",
			Objective:        "Financiar iniciativas empresariales.",
			InstitutionID:    "2",
			LineID:           "2",
			TargetAudienceID: "2",
			InterestID:       "2",
		},
		{
			ID:               "3",
			Title:            "Aldea Innovación",
			Description:      "Programa de aceleración para emprendimientos innovadores.",
			OpenDate:         "2024-01-20",
			CloseDate:        "2024-12-15",
			PageName:         "iNNpulsa",
			InstitutionID:    "3",
			LineID:           "2",
			TargetAudienceID: "2",
			InterestID:       "1",
		},
	}
}

func CallHistory() []models.CallHistory {
	return []models.CallHistory{
		{
			ID:            "1",
			Title:         "Jóvenes Investigadores 2023",
			Description:   "Edición anterior del programa de jóvenes investigadores.",
			OpenDate:      "2023-02-10",
			CloseDate:     "2023-04-28",
			InstitutionID: "1",
			LineID:        "1",
			Status:        models.CallStatusClosed,
		},
	}
}

// Users returns the initial administrator with its password hashed.
func Users(adminEmail, adminPassword string) ([]models.User, error) {
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("error hashing admin password: %w", err)
	}
	return []models.User{
		{
			ID:           "1",
			Name:         "Administrador",
			Email:        adminEmail,
			PasswordHash: hash,
			Status:       models.UserStatusActive,
			RoleID:       "1",
		},
	}, nil
}

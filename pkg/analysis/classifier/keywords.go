package classifier

// DefaultSpecialtyKeywords maps a specialty label to the terms that vote
// for it. Scoring is a plain match count over the lowercased document.
var DefaultSpecialtyKeywords = map[string][]string{
	"Cardiology": {
		"cardiac", "heart", "myocardial", "ecg", "ekg", "coronary",
		"arrhythmia", "palpitation", "angina", "hypertension", "tachycardia",
		"bradycardia", "atrial fibrillation", "heart failure", "ejection fraction",
		"troponin", "bnp", "stent", "catheterization", "echocardiogram",
		"chest pain", "aspirin", "statin",
	},
	"Pulmonology": {
		"pulmonary", "lung", "respiratory", "bronchi", "asthma", "copd",
		"pneumonia", "pleural", "dyspnea", "spirometry", "bronchoscopy",
		"oxygen saturation", "ventilator", "thoracic", "emphysema",
		"shortness of breath",
	},
	"Neurology": {
		"neuro", "brain", "stroke", "seizure", "epilepsy", "headache",
		"migraine", "parkinson", "alzheimer", "dementia", "mri brain",
		"eeg", "neuropathy", "multiple sclerosis", "tremor", "vertigo",
	},
	"Orthopedics": {
		"bone", "fracture", "joint", "orthopedic", "ligament", "tendon",
		"arthritis", "osteoporosis", "spine", "lumbar", "cervical disc",
		"cartilage", "meniscus", "acl", "replacement", "dislocation",
	},
	"Gastroenterology": {
		"gastro", "stomach", "intestinal", "bowel", "colon", "liver",
		"hepatic", "ulcer", "colonoscopy", "endoscopy", "crohn",
		"ibs", "reflux", "gerd", "pancreas", "gallbladder",
	},
	"Endocrinology": {
		"diabetes", "thyroid", "hormone", "insulin", "glucose", "hba1c",
		"endocrine", "adrenal", "pituitary", "cortisol", "tsh", "t3", "t4",
		"metabolic", "obesity", "hypothyroid", "hyperthyroid",
	},
	"Oncology": {
		"cancer", "tumor", "malignant", "benign", "chemotherapy",
		"radiation", "oncology", "biopsy", "metastasis", "carcinoma",
		"lymphoma", "leukemia", "staging", "resection", "neoplasm",
	},
	"Psychiatry": {
		"psychiatric", "depression", "anxiety", "mental health", "schizophrenia",
		"bipolar", "psychosis", "therapy", "antidepressant", "ssri",
		"adhd", "ptsd", "substance abuse", "mood disorder",
	},
	"Nephrology": {
		"kidney", "renal", "dialysis", "creatinine", "glomerular",
		"nephropathy", "proteinuria", "uremia", "transplant kidney",
		"gfr", "pkd", "nephrotic", "pyelonephritis",
	},
	"Dermatology": {
		"skin", "dermatology", "rash", "eczema", "psoriasis", "acne",
		"melanoma", "dermatitis", "lesion", "biopsy skin", "urticaria",
	},
	"Obstetrics/Gynecology": {
		"pregnancy", "obstetric", "gynecology", "uterus", "ovarian",
		"cervical", "maternal", "fetal", "delivery", "menstrual",
		"pap smear", "prenatal", "postpartum", "contraception",
	},
	"Ophthalmology": {
		"eye", "vision", "retina", "glaucoma", "cataract", "cornea",
		"ophthalmology", "optometry", "intraocular", "macular",
	},
	"General Practice": {
		"general", "family medicine", "primary care", "checkup",
		"annual", "wellness", "preventive", "routine",
	},
}

// DefaultRiskKeywords are the high-priority findings that must always be
// flagged, whatever the AI said. Missing a safety flag is worse than a
// duplicate.
var DefaultRiskKeywords = []string{
	// Cardiovascular emergencies
	"chest pain", "cardiac arrest", "myocardial infarction", "heart attack",
	"stroke", "tia", "pulmonary embolism", "deep vein thrombosis",
	// Respiratory
	"respiratory failure", "respiratory distress", "hypoxia", "anoxia",
	// Neurological
	"altered consciousness", "loss of consciousness", "seizure", "coma",
	// Oncological
	"malignant", "metastasis", "advanced cancer", "stage 4", "stage iv",
	// Infectious
	"sepsis", "septic shock", "bacteremia",
	// Labs
	"critical value", "dangerously elevated", "significantly elevated",
	// Other urgent
	"urgent", "emergent", "critical", "severe", "acute", "immediate",
	"life-threatening", "icu", "intensive care",
}

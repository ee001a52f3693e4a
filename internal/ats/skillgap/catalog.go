package skillgap

type certEntry struct {
	skill string
	certs []string
}

// certifications is searched in order; an exact key match wins over a
// substring match.
var certifications = []certEntry{
	{"python", []string{"Python Professional Certification (PCAP)", "Google IT Automation with Python"}},
	{"java", []string{"Oracle Certified Java Programmer (OCJP)", "Java Programming Masterclass"}},
	{"javascript", []string{"JavaScript Algorithms and Data Structures (freeCodeCamp)", "Modern JavaScript (Udemy)"}},
	{"react", []string{"React - The Complete Guide (Udemy)", "Meta React Developer Certificate"}},
	{"node.js", []string{"Node.js - The Complete Guide", "AWS Certified Developer"}},
	{"docker", []string{"Docker Certified Associate (DCA)", "Docker & Kubernetes: The Practical Guide"}},
	{"kubernetes", []string{"Certified Kubernetes Administrator (CKA)", "Kubernetes for the Absolute Beginners"}},
	{"aws", []string{"AWS Certified Solutions Architect", "AWS Cloud Practitioner"}},
	{"sql", []string{"SQL for Data Science (Coursera)", "Oracle Database SQL Certified Associate"}},
	{"machine learning", []string{"Machine Learning (Coursera - Andrew Ng)", "TensorFlow Developer Certificate"}},
	{"rest api", []string{"REST API Design (Udemy)", "API Design and Fundamentals of Google Cloud"}},
	{"git", []string{"Git & GitHub - The Practical Guide", "Version Control with Git (Coursera)"}},
	{"postgresql", []string{"PostgreSQL for Everybody (Coursera)", "Complete PostgreSQL Bootcamp"}},
	{"mongodb", []string{"MongoDB Certified Developer", "The Complete Developers Guide to MongoDB"}},
	{"devops", []string{"DevOps Engineer (Udacity)", "Google Cloud Professional DevOps Engineer"}},
	{"pandas", []string{"Data Analysis with Python (freeCodeCamp)", "Pandas for Data Analysis (Udemy)"}},
}

type learningPath struct {
	role  string
	steps []string
}

// learningPaths matches when the role key is contained in the requested role.
var learningPaths = []learningPath{
	{"backend", []string{"REST API", "Database Design", "System Design", "API Security"}},
	{"frontend", []string{"React/Vue/Angular", "State Management", "Responsive Design", "Web Performance"}},
	{"fullstack", []string{"Backend Fundamentals", "Frontend Fundamentals", "Database", "Deployment"}},
	{"devops", []string{"Docker", "Kubernetes", "CI/CD", "Cloud Platforms"}},
	{"data science", []string{"Python", "Pandas", "Machine Learning", "Data Visualization"}},
	{"ml engineer", []string{"Python", "TensorFlow/PyTorch", "Deep Learning", "MLOps"}},
}

package services

import "github.com/certiswift/certiswift-api/internal/models"

// CatalogService serves the fixed choices offered by the course form
type CatalogService struct {
	options *models.CatalogOptions
}

func NewCatalogService() *CatalogService {
	return &CatalogService{options: defaultCatalogOptions()}
}

func (s *CatalogService) Options() *models.CatalogOptions {
	return s.options
}

func defaultCatalogOptions() *models.CatalogOptions {
	return &models.CatalogOptions{
		Domains: []models.Domain{
			{Value: "web-dev", Label: "Web & App Development", Subcategories: []string{"Front-End", "Back-End", "Full-Stack", "Mobile", "JavaScript"}},
			{Value: "data-ai", Label: "Data & AI", Subcategories: []string{"Data Science", "Data Analytics", "Machine Learning", "Deep Learning", "Power BI"}},
			{Value: "cybersecurity", Label: "Cybersecurity & IT", Subcategories: []string{"Ethical Hacking", "Network Security", "SOC Analyst", "Information Security"}},
			{Value: "design", Label: "Design & Creative", Subcategories: []string{"UI/UX Design", "Graphic Design", "Product Design", "Figma", "Adobe XD"}},
			{Value: "cloud-devops", Label: "Cloud & DevOps", Subcategories: []string{"AWS", "Azure", "Google Cloud", "Kubernetes", "Docker", "CI/CD"}},
			{Value: "programming", Label: "Programming & Software", Subcategories: []string{"Python", "Java", "C/C++", "PHP", "SQL", "JavaScript"}},
			{Value: "business", Label: "Business & Management", Subcategories: []string{"Project Management", "Digital Marketing", "Entrepreneurship", "Agile", "Finance"}},
			{Value: "emerging-tech", Label: "Emerging Tech", Subcategories: []string{"Blockchain", "Web3", "AR/VR", "IoT", "Robotics"}},
			{Value: "career", Label: "Career & Soft Skills", Subcategories: []string{"Communication", "Leadership", "Resume Building", "Interview Skills"}},
		},
		Platforms: []string{
			"Coursera", "Udemy", "Forage", "IBM SkillsBuild", "AWS Training", "Google Career Certs",
			"Class Central", "Alison", "Microsoft Learn", "Simplilearn", "FutureLearn", "Cisco",
			"edX", "SoloLearn", "Cognitive Class",
		},
		SkillLevels: []string{"Beginner", "Intermediate", "Advanced", "Expert"},
		PriceRanges: []string{"Free", "Budget (₹500-2500)", "Premium (₹2500-10000)", "Enterprise (₹10000+)", models.CustomAmountPriceRange},
	}
}

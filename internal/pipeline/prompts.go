package pipeline

import "fmt"

// DefaultFramework is the CSS approach requested when none is configured
const DefaultFramework = "Regular CSS"

// noFences is appended to every prompt whose answer must be bare HTML
const noFences = "Avoid using ```html. and ``` at the end."

// Prompts builds the prompt of every stage. Earlier outputs are embedded
// verbatim.
type Prompts struct {
	Framework string
}

// Describe asks for every UI element with a bounding box and its colors
func (p Prompts) Describe() string {
	return "Describe this UI in accurate details. When you reference a UI element put its name and bounding box " +
		"in the format: [object name (y_min, x_min, y_max, x_max)]. Also Describe the color of the elements."
}

// RefineDescription asks the model to check its description against the image
func (p Prompts) RefineDescription(description string) string {
	return fmt.Sprintf("Compare the described UI elements with the provided image and identify any missing elements "+
		"or inaccuracies. Also Describe the color of the elements. Provide a refined and accurate description of "+
		"the UI elements based on this comparison. Here is the initial description: %s", description)
}

// GenerateHTML asks for one self-contained, responsive HTML document
func (p Prompts) GenerateHTML(refinedDescription string) string {
	return fmt.Sprintf("Create an HTML file based on the following UI description, using the UI elements described "+
		"in the previous response. Include %s CSS within the HTML file to style the elements. Make sure the colors "+
		"used are the same as the original UI. The UI needs to be responsive and mobile-first, matching the original "+
		"UI as closely as possible. Do not include any explanations or comments. %s ONLY return the HTML code with "+
		"inline CSS. Here is the refined description: %s", p.Framework, noFences, refinedDescription)
}

// RefineHTML asks the model to validate its HTML against the image
func (p Prompts) RefineHTML(initialHTML string) string {
	return fmt.Sprintf("Validate the following HTML code based on the UI description and image and provide a refined "+
		"version of the HTML code with %s CSS that improves accuracy, responsiveness, and adherence to the original "+
		"design. ONLY return the refined HTML code with inline CSS. %s Here is the initial HTML: %s",
		p.Framework, noFences, initialHTML)
}

// FollowUp embeds the current HTML and a free-form edit request
func (p Prompts) FollowUp(currentHTML, request string) string {
	return fmt.Sprintf("Here is the current HTML code:\n```html\n%s\n```\n\nUser request: %s\n\n"+
		"Based on this request, generate the updated HTML code. Remember to ONLY return the refined HTML code "+
		"with inline %s CSS. %s", currentHTML, request, p.Framework, noFences)
}
